package conf

// Editor carries the editor options the title surface reads.
type Editor struct {
	ReadOnly bool `json:"readOnly"`
}

func NewEditor() *Editor {
	return &Editor{}
}

func (e *Editor) Clone() *Editor {
	if e == nil {
		return nil
	}
	dup := *e
	return &dup
}

// Conf is the configuration snapshot served by system/getConf.
type Conf struct {
	FileTree *FileTree `json:"fileTree"`
	Editor   *Editor   `json:"editor"`
}

// NewConf returns the defaults for every section.
func NewConf() *Conf {
	return &Conf{FileTree: NewFileTree(), Editor: NewEditor()}
}

func (c *Conf) Clone() *Conf {
	if c == nil {
		return nil
	}
	return &Conf{FileTree: c.FileTree.Clone(), Editor: c.Editor.Clone()}
}
