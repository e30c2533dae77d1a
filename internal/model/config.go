package model

// Config is the top-level BuildMatrix document (k8s-style declarative format)
type Config struct {
	APIVersion string      `yaml:"apiVersion" json:"apiVersion"`
	Kind       string      `yaml:"kind" json:"kind"`
	Metadata   Metadata    `yaml:"metadata" json:"metadata"`
	Variables  Variables   `yaml:"variables" json:"variables"`
	Stages     []string    `yaml:"stages" json:"stages"`
	Template   JobTemplate `yaml:"template" json:"template"`
	Jobs       JobDefaults `yaml:"jobs" json:"jobs"`
	Builds     []BuildSpec `yaml:"builds" json:"builds"`
}

// Metadata holds standard object metadata
type Metadata struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// BuildSpec is one source folder and every target it must be built for
type BuildSpec struct {
	Folder  string   `yaml:"folder" json:"folder"`
	Targets []string `yaml:"targets" json:"targets"`
}

// JobTemplate is the shared configuration every generated job extends.
// Key is the reserved top-level key the template is stored under.
type JobTemplate struct {
	Key          string    `yaml:"key" json:"key"`
	BeforeScript []string  `yaml:"before_script" json:"before_script"`
	Script       []string  `yaml:"script" json:"script"`
	Artifacts    Artifacts `yaml:"artifacts" json:"artifacts"`
}

// Artifacts describes what a job keeps after it finishes
type Artifacts struct {
	Paths    []string `yaml:"paths" json:"paths"`
	ExpireIn string   `yaml:"expire_in,omitempty" json:"expire_in,omitempty"`
}

// JobDefaults controls how each (folder, target) pair becomes a job
type JobDefaults struct {
	Stage          string `yaml:"stage" json:"stage"`
	NamePrefix     string `yaml:"namePrefix" json:"namePrefix"`
	FolderVariable string `yaml:"folderVariable" json:"folderVariable"`
	TargetVariable string `yaml:"targetVariable" json:"targetVariable"`
}

// PairCount returns the number of (folder, target) pairs in the matrix
func (c *Config) PairCount() int {
	n := 0
	for _, b := range c.Builds {
		n += len(b.Targets)
	}
	return n
}

// Clone returns a deep copy so callers can normalize without touching the source
func (c *Config) Clone() *Config {
	out := *c
	out.Variables = append(Variables(nil), c.Variables...)
	out.Stages = append([]string(nil), c.Stages...)
	out.Template.BeforeScript = append([]string(nil), c.Template.BeforeScript...)
	out.Template.Script = append([]string(nil), c.Template.Script...)
	out.Template.Artifacts.Paths = append([]string(nil), c.Template.Artifacts.Paths...)
	out.Builds = make([]BuildSpec, len(c.Builds))
	for i, b := range c.Builds {
		out.Builds[i] = BuildSpec{
			Folder:  b.Folder,
			Targets: append([]string(nil), b.Targets...),
		}
	}
	return &out
}
