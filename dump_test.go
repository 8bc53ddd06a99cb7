package apla_test

import (
	"apla"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDump(t *testing.T) {
	checked, err := check(t, "include \"stdio.h\"\nextern fn f(a: c_int): c_int\nvar x = f(1)\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, apla.Dump(&buf, checked))

	var out struct {
		Name  string `yaml:"name"`
		Nodes []struct {
			Kind    string `yaml:"kind"`
			Span    string `yaml:"span"`
			Name    string `yaml:"name"`
			Literal string `yaml:"literal"`
			Type    string `yaml:"type"`
			Params  []struct {
				Name string `yaml:"name"`
				Type string `yaml:"type"`
			} `yaml:"params"`
			Value *struct {
				Kind string `yaml:"kind"`
				Name string `yaml:"name"`
				Type string `yaml:"type"`
				Args []struct {
					Literal string `yaml:"literal"`
					Type    string `yaml:"type"`
				} `yaml:"args"`
			} `yaml:"value"`
		} `yaml:"nodes"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "test", out.Name)
	require.Len(t, out.Nodes, 3)

	include := out.Nodes[0]
	assert.Equal(t, "include", include.Kind)
	assert.Equal(t, "stdio.h", include.Literal)
	assert.Equal(t, "1:1", include.Span)

	extern := out.Nodes[1]
	assert.Equal(t, "extern", extern.Kind)
	assert.Equal(t, "f", extern.Name)
	assert.Equal(t, "c_int", extern.Type)
	require.Len(t, extern.Params, 1)
	assert.Equal(t, "a", extern.Params[0].Name)
	assert.Equal(t, "c_int", extern.Params[0].Type)

	decl := out.Nodes[2]
	assert.Equal(t, "variable", decl.Kind)
	assert.Equal(t, "c_int", decl.Type)
	require.NotNil(t, decl.Value)
	assert.Equal(t, "call", decl.Value.Kind)
	assert.Equal(t, "f", decl.Value.Name)
	require.Len(t, decl.Value.Args, 1)
	assert.Equal(t, "1", decl.Value.Args[0].Literal)
	assert.Equal(t, "numeric", decl.Value.Args[0].Type)
}

func TestDump_Unchecked(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, apla.Dump(&buf, parse(t, "var x: c_int\n")))
	assert.NotContains(t, buf.String(), "type:")
	assert.Contains(t, buf.String(), "kind: variable")
}
