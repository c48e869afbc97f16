package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/classdiag/internal/analyzer"
	"github.com/olehluchkiv/classdiag/internal/config"
	"github.com/olehluchkiv/classdiag/internal/lang"
	"github.com/olehluchkiv/classdiag/internal/uml"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "classdiag "+Version)
	assert.Contains(t, stdout, "Git commit:")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t, "", "config", "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, config.FileName)
	assert.FileExists(t, filepath.Join(dir, config.FileName))

	_, _, err = execute(t, "", "config", "init", "--dir", dir)
	require.ErrorIs(t, err, config.ErrConfigExists)

	_, _, err = execute(t, "", "config", "init", "--dir", dir, "--force")
	require.NoError(t, err)
}

func TestGenerate_Stdin(t *testing.T) {
	stdout, stderr, err := execute(t,
		"public class Widget { public void Render() {} private int size; }",
		"generate", "-l", "csharp", "-")
	require.NoError(t, err)

	assert.Equal(t, "classDiagram\n    class Widget {\n        +Render() : void\n        -size : int\n    }\n", stdout)
	assert.Contains(t, stderr, "1 classes")
	assert.Contains(t, stderr, "1 file")
}

func TestGenerate_DirectoryToFile(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "Shape.java"), []byte("interface Shape { double area(); }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Circle.java"), []byte("class Circle implements Shape { private double r; }"), 0o644))
	out := filepath.Join(t.TempDir(), "shapes.mmd")

	stdout, stderr, err := execute(t, "", "generate", src, "-o", out, "--hide-private", "--init", "--direction", "LR")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Wrote diagram to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "%%{init:"))
	assert.Contains(t, text, "    direction LR")
	assert.Contains(t, text, "    Shape <|.. Circle")
	assert.NotContains(t, text, "-r : double")
}

func TestGenerate_Slides(t *testing.T) {
	src := `interface IHandler { void handle(); }
class A implements IHandler {}
class B implements IHandler {}
class C implements IHandler {}
class D implements IHandler {}`

	stdout, _, err := execute(t, src, "generate", "-l", "java", "-q", "--slides", "--slide-threshold", "4", "-")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "## Overview\n\n```mermaid\nclassDiagram\n"))
	assert.Contains(t, stdout, "## A, B, C\n")
	assert.Contains(t, stdout, "## D\n")
	assert.True(t, strings.HasSuffix(stdout, "```\n"))
}

func TestGenerate_MaxNodes(t *testing.T) {
	src := "class Base {}\nclass Child extends Base {}\nclass Loner {}"

	stdout, _, err := execute(t, src, "generate", "-l", "java", "-q", "--max-nodes", "2", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "    Base <|-- Child")
	assert.NotContains(t, stdout, "Loner")
}

func TestGenerate_QuietSuppressesSummary(t *testing.T) {
	_, stderr, err := execute(t, "class A:\n    pass\n", "generate", "-l", "py", "-q", "-")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "classes")
}

func TestGenerate_Errors(t *testing.T) {
	_, _, err := execute(t, "", "generate", "-l", "cobol", "-")
	require.ErrorIs(t, err, lang.ErrUnsupportedLanguage)

	_, _, err = execute(t, "", "generate", t.TempDir())
	require.ErrorIs(t, err, analyzer.ErrNoSources)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--log-level", "chatty", "version"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestRoot_ExplicitConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("language: python\ndiagram:\n  direction: BT\n"), 0o644))

	stdout, _, err := execute(t, "class A:\n    x: int\n", "--config", cfgPath, "generate", "-q", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "    direction BT")
	assert.Contains(t, stdout, "        +x : int")
}

func TestGenerateFlags_RunConfigPrefersChangedFlags(t *testing.T) {
	var f generateFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.bind(fs)
	require.NoError(t, fs.Parse([]string{"--prefix", "Order", "--ignore", "gen/**"}))

	cfg := config.Default()
	cfg.Language = "java"
	cfg.Diagram.NamePrefix = "Customer"
	cfg.Diagram.HidePrivate = true

	rc := f.runConfig(fs, cfg, []string{"."}, nil)
	assert.Equal(t, "java", rc.Language)
	assert.Equal(t, "Order", rc.Options.Filter.NamePrefix)
	assert.True(t, rc.Options.Filter.HidePrivate)
	assert.Equal(t, []string{"gen/**"}, rc.Ignore)
	assert.Zero(t, rc.Options.MaxNodes)

	out := f.outputOptions(fs, cfg)
	assert.Equal(t, cfg.Output, out.path)
	assert.Equal(t, 20, out.slideThreshold)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &analyzer.Result{
		Language: lang.Java,
		Stats:    uml.Stats{Classes: 2, Interfaces: 1, Members: 7},
		Units:    3,
		Bytes:    2048,
	}, "out.mmd")

	got := buf.String()
	assert.Contains(t, got, "java 2 classes, 1 interfaces, 0 records, 0 structs, 7 members from 3 files (2.0 kB)")
	assert.Contains(t, got, "Wrote diagram to out.mmd")
}

func TestWatchedExtensions(t *testing.T) {
	exts, err := watchedExtensions("python")
	require.NoError(t, err)
	assert.Equal(t, []string{".py", ".pyi"}, exts)

	all, err := watchedExtensions("")
	require.NoError(t, err)
	assert.Contains(t, all, ".cs")
	assert.Contains(t, all, ".go")

	_, err = watchedExtensions("cobol")
	assert.Error(t, err)
}
