package menu

// Node is one entry of the document menu tree. A node with a Loader opens a
// submenu; its Action then runs for the items of that submenu.
type Node struct {
	ID       string
	Parent   *Node
	Loader   Loader
	Action   Action
	Mutating bool
	Children map[string]*Node
}

// Def declares a registry node. An empty Parent means the root.
type Def struct {
	ID       string
	Parent   string
	Loader   Loader
	Action   Action
	Mutating bool
}

// Definitions lists the document menu entries that do something.
func Definitions() []Def {
	return []Def{
		{ID: "copy", Loader: loadCopyMenu, Action: CopyAction},
		{ID: "attr", Action: AttrAction, Mutating: true},
		{ID: "move", Loader: loadMoveMenu, Action: MoveAction, Mutating: true},
		{ID: "reminder", Action: ReminderAction},
		{ID: "delete", Action: DeleteAction},
		{ID: "outline", Action: OutlineAction},
		{ID: "backlinks", Action: BacklinksAction},
		{ID: "graph", Action: GraphAction},
	}
}

// Registry resolves menu IDs to nodes.
type Registry struct {
	root  *Node
	nodes map[string]*Node
}

// BuildRegistry builds the tree from Definitions under a root that loads the
// document menu.
func BuildRegistry() *Registry {
	return NewRegistry(loadDocMenu, Definitions())
}

// NewRegistry builds a tree from defs. Defs naming an unknown parent hang
// off the root.
func NewRegistry(rootLoader Loader, defs []Def) *Registry {
	root := &Node{ID: "root", Loader: rootLoader, Children: map[string]*Node{}}
	r := &Registry{root: root, nodes: map[string]*Node{"root": root}}
	for _, d := range defs {
		r.nodes[d.ID] = &Node{ID: d.ID, Loader: d.Loader, Action: d.Action, Mutating: d.Mutating, Children: map[string]*Node{}}
	}
	for _, d := range defs {
		parent, ok := r.nodes[d.Parent]
		if d.Parent == "" || !ok || d.Parent == d.ID {
			parent = root
		}
		node := r.nodes[d.ID]
		node.Parent = parent
		parent.Children[d.ID] = node
	}
	return r
}

func (r *Registry) Root() *Node {
	return r.root
}

// Find locates a node by ID.
func (r *Registry) Find(id string) (*Node, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// Child resolves the child key of parentID.
func (r *Registry) Child(parentID, key string) (*Node, bool) {
	parent, ok := r.nodes[parentID]
	if !ok {
		return nil, false
	}
	node, ok := parent.Children[key]
	return node, ok
}
