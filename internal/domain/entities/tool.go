package entities

type Item struct {
	Type string
}

type Parameter struct {
	Name        string
	Type        string
	Enum        []string
	Items       []Item
	Properties  []Parameter
	Description string
	Required    bool
}

type Tool interface {
	Name() string
	Description() string
	Configuration() map[string]string
	UpdateConfiguration(config map[string]string)
	FullDescription() string
	Parameters() []Parameter
	Execute(arguments string) (string, error)
}
