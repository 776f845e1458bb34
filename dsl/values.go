package dsl

import (
	"fmt"
	"strings"
)

// Text flattens a scalar value into its source text.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	switch {
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Expr != nil:
		var builder strings.Builder
		for _, part := range v.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

// Strings returns the items of an array value, or the scalar as a single item.
func (v *Value) Strings() []string {
	if v == nil {
		return nil
	}
	if v.Array == nil {
		if s := v.Text(); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(v.Array.Values))
	for _, item := range v.Array.Values {
		if s := item.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Texts returns every string literal statement of the block in order.
func (b *Block) Texts() []string {
	if b == nil {
		return nil
	}
	var out []string
	for _, stmt := range b.Statements {
		if stmt.Text != nil {
			out = append(out, string(stmt.Text.Value))
		}
	}
	return out
}

// Attrs collects the `key: value` assignments of the block. Keys are lower-cased.
func (b *Block) Attrs() map[string]*Value {
	out := map[string]*Value{}
	if b == nil {
		return out
	}
	for _, stmt := range b.Statements {
		if stmt.Assignment != nil {
			out[strings.ToLower(stmt.Assignment.Key)] = stmt.Assignment.Value
		}
	}
	return out
}

// Commands returns the block's commands with the given name.
func (b *Block) Commands(name string) []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, stmt := range b.Statements {
		if stmt.Command != nil && stmt.Command.Name == name {
			out = append(out, stmt.Command)
		}
	}
	return out
}

// SplitArgs separates a command's arguments into a leading, comma separated
// name list and the `key value` pairs that follow it:
//
//	text Body, Emoji align justify size 24px
func SplitArgs(args []*Lexeme) (names []string, attrs map[string]string, err error) {
	attrs = map[string]string{}
	i := 0
	for i < len(args) && args[i].Type == "Ident" {
		names = append(names, args[i].Value)
		i++
		if i < len(args) && args[i].Raw == "," {
			i++
			continue
		}
		break
	}
	if len(names) > 0 && i > 0 && args[i-1].Raw == "," {
		return nil, nil, fmt.Errorf("%s: 名称列表以逗号结尾", args[i-1].Pos)
	}
	// 只有一个名称且后面还有参数时，它其实是第一个键
	if len(names) == 1 && i < len(args) && (len(args)-i)%2 == 1 {
		names, i = nil, 0
	}
	for ; i < len(args); i += 2 {
		key := args[i]
		if key.Type != "Ident" {
			return nil, nil, fmt.Errorf("%s: 期望属性名，实际 %q", key.Pos, key.Raw)
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("%s: 属性 %s 缺少取值", key.Pos, key.Value)
		}
		attrs[strings.ToLower(key.Value)] = args[i+1].Value
	}
	return names, attrs, nil
}
