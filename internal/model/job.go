package model

// Job is one generated CI unit of work for a folder/target combination
type Job struct {
	Name      string    `yaml:"-" json:"-"`
	Folder    string    `yaml:"-" json:"-"`
	Target    string    `yaml:"-" json:"-"`
	Stage     string    `yaml:"stage" json:"stage"`
	Extends   string    `yaml:"extends" json:"extends"`
	Variables Variables `yaml:"variables" json:"variables"`
}
