package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/saint0x/ggsum/pkg/pipeline"
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 1).
	Width(82)

// printPanel renders a bordered block of text to stdout.
func printPanel(text string) {
	fmt.Println(panelStyle.Render(text))
}

func additions(res *pipeline.Result) int {
	n := 0
	for _, f := range res.Payload.Files {
		n += f.Additions
	}
	return n
}

func deletions(res *pipeline.Result) int {
	n := 0
	for _, f := range res.Payload.Files {
		n += f.Deletions
	}
	return n
}
