package model

const (
	APIVersion = "sourceplane.io/v1"
	KindMatrix = "BuildMatrix"

	DefaultTemplateKey    = ".build_template"
	DefaultStage          = "build"
	DefaultNamePrefix     = "build"
	DefaultFolderVariable = "CI_BUILD_FOLDER"
	DefaultTargetVariable = "IDF_TARGET"
)

const artifactRoot = "${CI_PROJECT_DIR}/solutions/$CI_BUILD_FOLDER"

// DefaultConfig returns the built-in build matrix for the solutions tree.
// Every call returns a fresh value.
func DefaultConfig() *Config {
	return &Config{
		APIVersion: APIVersion,
		Kind:       KindMatrix,
		Metadata: Metadata{
			Name:        "solutions-build",
			Description: "Build every solution for each supported chip target",
		},
		Variables: Variables{
			{Name: "DOCKER_IMAGE", Value: "${CI_DOCKER_REGISTRY}/esp-env-v5.4:1"},
			{Name: "BASE_FRAMEWORK_PATH", Value: "$CI_PROJECT_DIR/esp-idf"},
			{Name: "BASE_FRAMEWORK", Value: "$IDF_REPOSITORY"},
			{Name: "IDF_VERSION_TAG", Value: "v5.4"},
			{Name: "IDF_TAG_FLAG", Value: false},
		},
		Stages: []string{DefaultStage},
		Template: JobTemplate{
			Key: DefaultTemplateKey,
			BeforeScript: []string{
				"export OPENAI_API_KEY=FAKE_KEY_FOR_BUILD_ONLY",
			},
			Script: []string{
				"run_cmd python ${BASE_FRAMEWORK_PATH}/tools/ci/ci_build_apps.py ${CI_PROJECT_DIR}/solutions/$CI_BUILD_FOLDER -vv -t $IDF_TARGET --pytest-apps",
			},
			Artifacts: Artifacts{
				Paths: []string{
					artifactRoot + "/build*/size.json",
					artifactRoot + "/build*/build_log.txt",
					artifactRoot + "/build*/*.bin",
					artifactRoot + "/build*/*.elf",
					artifactRoot + "/build*/flasher_args.json",
					artifactRoot + "/build*/flash_project_args",
					artifactRoot + "/build*/config/sdkconfig.json",
					artifactRoot + "/build*/sdkconfig",
					artifactRoot + "/build*/bootloader/*.bin",
					artifactRoot + "/build*/partition_table/*.bin",
					artifactRoot + "/*.py",
				},
				ExpireIn: "4 days",
			},
		},
		Jobs: JobDefaults{
			Stage:          DefaultStage,
			NamePrefix:     DefaultNamePrefix,
			FolderVariable: DefaultFolderVariable,
			TargetVariable: DefaultTargetVariable,
		},
		Builds: []BuildSpec{
			{Folder: "peer_demo", Targets: []string{"esp32", "esp32s3", "esp32s2"}},
			{Folder: "openai_demo", Targets: []string{"esp32s3"}},
			{Folder: "doorbell_demo", Targets: []string{"esp32s3", "esp32p4"}},
		},
	}
}
