package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/lazypower/halflife/internal/deck"
	"gopkg.in/yaml.v3"
)

// yamlDeck is the document shape of a YAML deck:
//
//	topic: de.num
//	links:
//	  - prompt: "1"
//	    answer: eins
//	  - prompt: {index: "2", print: two}
//	    answer: zwei
//	    topic: de.num.even
type yamlDeck struct {
	Topic string     `yaml:"topic"`
	Links []yamlLink `yaml:"links"`
}

type yamlLink struct {
	Prompt yamlNode `yaml:"prompt"`
	Answer yamlNode `yaml:"answer"`
	Topic  string   `yaml:"topic"`
}

// yamlNode decodes either a plain scalar or a rich node mapping.
type yamlNode struct {
	node deck.Node
}

func (n *yamlNode) UnmarshalYAML(v *yaml.Node) error {
	switch v.Kind {
	case yaml.ScalarNode:
		n.node = deck.Text(v.Value)
		return nil
	case yaml.MappingNode:
		var r deck.Rich
		if err := v.Decode(&r); err != nil {
			return err
		}
		if r.Index == "" {
			return fmt.Errorf("line %d: node without index: %w", v.Line, ErrMalformed)
		}
		n.node = r
		return nil
	}
	return fmt.Errorf("line %d: node must be a string or mapping: %w", v.Line, ErrMalformed)
}

// ParseYAML reads a YAML deck. A link without its own topic inherits the
// deck's.
func ParseYAML(r io.Reader) ([]deck.Triple, error) {
	var d yamlDeck
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	out := make([]deck.Triple, 0, len(d.Links))
	for i, l := range d.Links {
		if l.Prompt.node == nil || l.Answer.node == nil {
			return nil, fmt.Errorf("link %d: prompt and answer required: %w", i, ErrMalformed)
		}
		topic := l.Topic
		if topic == "" {
			topic = d.Topic
		}
		out = append(out, deck.Triple{Prompt: l.Prompt.node, Answer: l.Answer.node, Topic: topic})
	}
	return out, nil
}
