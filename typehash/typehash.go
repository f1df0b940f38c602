// Package typehash computes the two definition hashes spec.md section 4.D
// names: the wire1-compatible MD5 definition hash and the RIHS01
// structural hash. Neither algorithm is a free choice of hash family --
// both are fixed by the wire formats they identify -- so this package is
// grounded directly on spec.md's algorithm description plus
// original_source/rosbags/typesys/md5.py and rihs01.py for the exact
// canonicalization semantics, not on any teacher file (dp3 never needs a
// wire1-exact definition hash).
package typehash

import (
	"crypto/md5" //nolint:gosec
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/ben-z/rosbags/schema"
)

// Lookuper is the subset of typestore.Store this package needs. Kept
// narrow here, rather than importing typestore, so typestore can import
// typehash without a cycle.
type Lookuper interface {
	Lookup(name string) (*schema.Descriptor, bool)
}

// MD5 computes the wire1-compatible definition hash for name, recursively
// substituting each nameref field's own MD5 hash the way ROS1's genmsg
// does, so that two structurally identical message graphs hash the same
// regardless of which package names their dependencies live under.
func MD5(store Lookuper, name string) (string, error) {
	return md5Hash(store, name, map[string]string{}, map[string]bool{})
}

func md5Hash(store Lookuper, name string, memo map[string]string, visiting map[string]bool) (string, error) {
	if h, ok := memo[name]; ok {
		return h, nil
	}
	if visiting[name] {
		return "", &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "cyclic type reference while hashing: " + name}
	}
	desc, ok := store.Lookup(name)
	if !ok {
		return "", &schema.UnknownTypeError{Name: name}
	}
	visiting[name] = true
	text, err := md5Text(store, desc, memo, visiting)
	delete(visiting, name)
	if err != nil {
		return "", err
	}
	sum := md5.Sum([]byte(text)) //nolint:gosec
	hexSum := hex.EncodeToString(sum[:])
	memo[name] = hexSum
	return hexSum, nil
}

func md5Text(store Lookuper, desc *schema.Descriptor, memo map[string]string, visiting map[string]bool) (string, error) {
	if desc.VerbatimMsgText != "" {
		return cleanText(desc.VerbatimMsgText), nil
	}
	var lines []string
	for _, c := range desc.Constants {
		lines = append(lines, constantLine(c))
	}
	for _, f := range desc.Fields {
		typeStr, err := md5TypeString(store, f.Type, memo, visiting)
		if err != nil {
			return "", err
		}
		lines = append(lines, typeStr+" "+f.Name)
	}
	return strings.Join(lines, "\n"), nil
}

func md5TypeString(store Lookuper, t schema.Type, memo map[string]string, visiting map[string]bool) (string, error) {
	if t.Array {
		inner, err := md5TypeString(store, *t.Items, memo, visiting)
		if err != nil {
			return "", err
		}
		return arraySuffix(inner, t), nil
	}
	if t.Ref != "" {
		return md5Hash(store, t.Ref, memo, visiting)
	}
	return primitiveSpelling(t), nil
}

// RIHS01 computes the structural hash: a version tag concatenated with a
// SHA-256 over a postorder serialization of the descriptor graph, where
// each nameref field contributes its dependency's own RIHS01 digest
// rather than its name, making the hash invariant to comment/whitespace
// edits. Each descriptor's own fully qualified name is part of its
// serialization, so the same structure registered under a different name
// hashes differently.
func RIHS01(store Lookuper, name string) (string, error) {
	h, err := rihsHash(store, name, map[string]string{}, map[string]bool{})
	if err != nil {
		return "", err
	}
	return "RIHS01_" + h, nil
}

func rihsHash(store Lookuper, name string, memo map[string]string, visiting map[string]bool) (string, error) {
	if h, ok := memo[name]; ok {
		return h, nil
	}
	if visiting[name] {
		return "", &schema.ParseError{Kind: schema.UnexpectedToken, Msg: "cyclic type reference while hashing: " + name}
	}
	desc, ok := store.Lookup(name)
	if !ok {
		return "", &schema.UnknownTypeError{Name: name}
	}
	visiting[name] = true

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s %s\n", kindSpelling(desc.Kind), desc.Name)
	for _, c := range desc.Constants {
		buf.WriteString(constantLine(c))
		buf.WriteByte('\n')
	}
	for _, f := range desc.Fields {
		typeStr, err := rihsTypeString(store, f.Type, memo, visiting)
		if err != nil {
			delete(visiting, name)
			return "", err
		}
		fmt.Fprintf(&buf, "%s %s\n", typeStr, f.Name)
	}
	delete(visiting, name)

	sum := sha256.Sum256([]byte(buf.String()))
	hexSum := hex.EncodeToString(sum[:])
	memo[name] = hexSum
	return hexSum, nil
}

func rihsTypeString(store Lookuper, t schema.Type, memo map[string]string, visiting map[string]bool) (string, error) {
	if t.Array {
		inner, err := rihsTypeString(store, *t.Items, memo, visiting)
		if err != nil {
			return "", err
		}
		return arraySuffix(inner, t), nil
	}
	if t.Ref != "" {
		return rihsHash(store, t.Ref, memo, visiting)
	}
	return primitiveSpelling(t), nil
}

func kindSpelling(k schema.Kind) string {
	if k == schema.KindConstModule {
		return "constmodule"
	}
	return "message"
}

func arraySuffix(inner string, t schema.Type) string {
	switch {
	case t.Bounded:
		return fmt.Sprintf("%s[<=%d]", inner, t.FixedSize)
	case t.FixedSize > 0:
		return fmt.Sprintf("%s[%d]", inner, t.FixedSize)
	default:
		return inner + "[]"
	}
}

func primitiveSpelling(t schema.Type) string {
	name := t.Primitive.String()
	if t.SizeBound > 0 {
		return fmt.Sprintf("%s<=%d", name, t.SizeBound)
	}
	return name
}

func constantLine(c schema.Constant) string {
	return fmt.Sprintf("%s %s=%s", primitiveSpelling(schema.Type{Primitive: c.Type, SizeBound: c.SizeBound}), c.Name, constantValueText(c.Value))
}

func constantValueText(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// cleanText strips full-line and trailing '#' comments (outside of quoted
// substrings, preserving the scenario-(e) rule that a '#' inside a string
// constant's literal value is not a comment marker) and collapses
// whitespace, the way ROS1's genmsg text-extraction step does before
// hashing a raw .msg source.
func cleanText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		stripped := stripCommentOutsideQuotes(line)
		collapsed := strings.Join(strings.Fields(stripped), " ")
		if collapsed != "" {
			lines = append(lines, collapsed)
		}
	}
	return strings.Join(lines, "\n")
}

func stripCommentOutsideQuotes(s string) string {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '#':
			return s[:i]
		}
	}
	return s
}
