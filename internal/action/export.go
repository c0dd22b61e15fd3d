package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Field is one entry of an [Object].
type Field struct {
	Key   string
	Value any
}

// Object is an ordered key/value value. It marshals to JSON and YAML with
// its keys in insertion order.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}

	return nil, false
}

// Keys returns the keys in order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for _, f := range o {
		keys = append(keys, f.Key)
	}

	return keys
}

// MarshalJSON implements [json.Marshaler].
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, fmt.Errorf("json marshal key %s: %w", f.Key, err)
		}

		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("json marshal %s: %w", f.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML implements [yaml.Marshaler] with a mapping node so key order
// survives.
func (o Object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, f := range o {
		var value yaml.Node

		err := value.Encode(f.Value)
		if err != nil {
			return nil, fmt.Errorf("yaml encode %s: %w", f.Key, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
			&value,
		)
	}

	return node, nil
}

// Export flattens a document into generic objects, one per root. Absent
// optional fields are left out, never written as null.
func Export(doc Document) []Object {
	return exportList(doc, ExportRoot)
}

// ExportRoot flattens a single root action and all its descendants.
func ExportRoot(r RootAction) Object {
	o := exportCommon(r.Common)

	if r.Story != nil {
		o = append(o, Field{Key: "story", Value: *r.Story})
	}

	if r.Children != nil {
		o = append(o, Field{Key: "children", Value: exportList(r.Children, exportChild)})
	}

	return o
}

// Envelope wraps the exported document together with the options the caller
// ran with. Nil options are left out.
func Envelope(doc Document, options map[string]any) Object {
	o := make(Object, 0, 2)
	if options != nil {
		o = append(o, Field{Key: "options", Value: options})
	}

	return append(o, Field{Key: "actions", Value: Export(doc)})
}

func exportList[C any](items []C, export func(C) Object) []Object {
	out := make([]Object, 0, len(items))
	for _, item := range items {
		out = append(out, export(item))
	}

	return out
}

func exportLevel[C any](l Level[C], exportChildren func(C) Object) Object {
	o := exportCommon(l.Common)

	if l.Children != nil {
		o = append(o, Field{Key: "children", Value: exportList(l.Children, exportChildren)})
	}

	return o
}

func exportChild(c ChildAction) Object {
	return exportLevel(c, exportGrandChild)
}

func exportGrandChild(c GrandChildAction) Object {
	return exportLevel(c, exportGreatGrandChild)
}

func exportGreatGrandChild(c GreatGrandChildAction) Object {
	return exportLevel(c, exportGreatGreatGrandChild)
}

func exportGreatGreatGrandChild(c GreatGreatGrandChildAction) Object {
	return exportLevel(c, exportLeaf)
}

func exportLeaf(l LeafAction) Object {
	return exportCommon(l.Common)
}

func exportCommon(p CommonActionProperties) Object {
	o := Object{
		{Key: "state", Value: p.State.String()},
		{Key: "name", Value: p.Name},
	}

	if p.Description != nil {
		o = append(o, Field{Key: "description", Value: *p.Description})
	}

	if p.Priority != nil {
		o = append(o, Field{Key: "priority", Value: *p.Priority})
	}

	if p.ContextList != nil {
		o = append(o, Field{Key: "context_list", Value: slices.Clone(p.ContextList)})
	}

	if p.ID != nil {
		o = append(o, Field{Key: "id", Value: p.ID.String()})
	}

	if p.DoDateTime != nil {
		o = append(o, Field{Key: "do_date_time", Value: p.DoDateTime.Format(time.RFC3339)})
	}

	if p.CompletedDateTime != nil {
		o = append(o, Field{Key: "completed_date_time", Value: p.CompletedDateTime.Format(time.RFC3339)})
	}

	return o
}
