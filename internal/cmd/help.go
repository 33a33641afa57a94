package cmd

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
)

const exampleConfig = `import_root: assets
export_dir: out
combinations: 10
seed: 0
extension: fbx
export_extension: glb
texture_variants: false
`

// renderRunHelp renders the help text for the run command with lipgloss styling
func renderRunHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginTop(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("10"))

	commandStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	commentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Italic(true)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Examples"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Flags only"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("avatarset run -i assets -o out -n 25"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Reproducible draw with texture variants"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("avatarset run -i assets -o out -s 1234 -t"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("YAML config mode"))
	b.WriteString("\n")
	b.WriteString("  " + commandStyle.Render("avatarset run -f avatarset.yaml"))
	b.WriteString("\n\n")
	b.WriteString(renderYAMLExample(exampleConfig))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("File naming"))
	b.WriteString("\n")
	b.WriteString("  " + commentStyle.Render("Components: <type>-<skeleton>-<theme>-<variant>-<mesh>-<region>.fbx"))
	b.WriteString("\n")
	b.WriteString("  " + commentStyle.Render("Textures add a map tag: outfit-f-casual-01-v1-top-D.png"))
	b.WriteString("\n")

	return b.String()
}

// renderYAMLExample syntax-highlights a YAML snippet for terminal output.
// Falls back to the plain text when highlighting fails.
func renderYAMLExample(src string) string {
	var hl strings.Builder
	if err := quick.Highlight(&hl, src, "yaml", "terminal256", "monokai"); err != nil {
		hl.Reset()
		hl.WriteString(src)
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(hl.String(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}
