package config

import (
	"fmt"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Category keys of the link configuration
const (
	KeyDirs  = "dirs"
	KeyFiles = "files"
)

// Configuration is the parsed link configuration. Slices keep the order
// entries were declared in.
type Configuration struct {
	Dirs  []DirRoot
	Files []FileRoot
}

// DirRoot groups the directories linked under one destination root.
type DirRoot struct {
	// Root is a destination prefix such as "~/." and is string-appended to
	// each directory and file name.
	Root string
	Dirs []DirEntry
}

// DirEntry is a directory of the source tree plus the files that are
// linked out of its destination-side link.
type DirEntry struct {
	Name  string
	Files []string
}

// FileRoot lists source-relative files linked under one destination root
// by their basename.
type FileRoot struct {
	Root  string
	Files []string
}

// Len returns the number of link requests the configuration expands to.
func (c *Configuration) Len() int {
	n := 0
	for _, root := range c.Dirs {
		for _, dir := range root.Dirs {
			n += 1 + len(dir.Files)
		}
	}
	for _, root := range c.Files {
		n += len(root.Files)
	}
	return n
}

// UnmarshalYAML decodes the configuration from the node tree, preserving
// order and rejecting duplicate keys.
func (c *Configuration) UnmarshalYAML(node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	pairs, err := mappingPairs(node, "configuration")
	if err != nil {
		return err
	}

	for _, pair := range pairs {
		switch pair.key {
		case KeyDirs:
			dirs, err := decodeDirRoots(pair.value)
			if err != nil {
				return err
			}
			c.Dirs = dirs
		case KeyFiles:
			files, err := decodeFileRoots(pair.value)
			if err != nil {
				return err
			}
			c.Files = files
		default:
			return errors.Newf(errors.ErrConfigInvalid, "unknown category %q at line %d (expected %q or %q)",
				pair.key, pair.line, KeyDirs, KeyFiles)
		}
	}
	return nil
}

// MarshalYAML encodes the configuration as ordered mappings.
func (c Configuration) MarshalYAML() (interface{}, error) {
	root := mappingNode()

	dirs := mappingNode()
	for _, dr := range c.Dirs {
		entries := mappingNode()
		for _, d := range dr.Dirs {
			appendPair(entries, d.Name, sequenceNode(d.Files))
		}
		appendPair(dirs, dr.Root, entries)
	}
	appendPair(root, KeyDirs, dirs)

	files := mappingNode()
	for _, fr := range c.Files {
		appendPair(files, fr.Root, sequenceNode(fr.Files))
	}
	appendPair(root, KeyFiles, files)

	return root, nil
}

func decodeDirRoots(node *yaml.Node) ([]DirRoot, error) {
	if isNull(node) {
		return nil, nil
	}
	pairs, err := mappingPairs(node, KeyDirs)
	if err != nil {
		return nil, err
	}

	roots := make([]DirRoot, 0, len(pairs))
	for _, pair := range pairs {
		root := DirRoot{Root: pair.key}
		if !isNull(pair.value) {
			dirPairs, err := mappingPairs(pair.value, fmt.Sprintf("%s[%s]", KeyDirs, pair.key))
			if err != nil {
				return nil, err
			}
			for _, dp := range dirPairs {
				files, err := decodeStrings(dp.value, fmt.Sprintf("%s[%s][%s]", KeyDirs, pair.key, dp.key))
				if err != nil {
					return nil, err
				}
				root.Dirs = append(root.Dirs, DirEntry{Name: dp.key, Files: files})
			}
		}
		roots = append(roots, root)
	}
	return roots, nil
}

func decodeFileRoots(node *yaml.Node) ([]FileRoot, error) {
	if isNull(node) {
		return nil, nil
	}
	pairs, err := mappingPairs(node, KeyFiles)
	if err != nil {
		return nil, err
	}

	roots := make([]FileRoot, 0, len(pairs))
	for _, pair := range pairs {
		files, err := decodeStrings(pair.value, fmt.Sprintf("%s[%s]", KeyFiles, pair.key))
		if err != nil {
			return nil, err
		}
		roots = append(roots, FileRoot{Root: pair.key, Files: files})
	}
	return roots, nil
}

type keyValue struct {
	key   string
	value *yaml.Node
	line  int
}

// mappingPairs returns the key/value pairs of a mapping node in order.
func mappingPairs(node *yaml.Node, where string) ([]keyValue, error) {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return nil, errors.Newf(errors.ErrConfigInvalid, "%s must be a mapping (line %d)", where, node.Line)
	}

	seen := make(map[string]int, len(node.Content)/2)
	pairs := make([]keyValue, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		if k.Kind != yaml.ScalarNode {
			return nil, errors.Newf(errors.ErrConfigInvalid, "%s has a non-scalar key (line %d)", where, k.Line)
		}
		if first, dup := seen[k.Value]; dup {
			return nil, errors.Newf(errors.ErrConfigInvalid, "%s: duplicate key %q at line %d (first defined at line %d)",
				where, k.Value, k.Line, first)
		}
		seen[k.Value] = k.Line
		pairs = append(pairs, keyValue{key: k.Value, value: node.Content[i+1], line: k.Line})
	}
	return pairs, nil
}

func decodeStrings(node *yaml.Node, where string) ([]string, error) {
	if isNull(node) {
		return nil, nil
	}
	node = resolveAlias(node)
	if node.Kind != yaml.SequenceNode {
		return nil, errors.Newf(errors.ErrConfigInvalid, "%s must be a list (line %d)", where, node.Line)
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.ScalarNode {
			return nil, errors.Newf(errors.ErrConfigInvalid, "%s entries must be strings (line %d)", where, item.Line)
		}
		out = append(out, item.Value)
	}
	return out, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	if node == nil {
		return true
	}
	node = resolveAlias(node)
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func sequenceNode(items []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, item := range items {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
	}
	return seq
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}
