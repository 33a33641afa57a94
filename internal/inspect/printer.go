package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/user/avatarset/internal/classify"
	"github.com/user/avatarset/internal/scene"
	"github.com/user/avatarset/internal/ui"
)

// RunPrinter prints the state of a pipeline run: category pools, asset
// dispositions, and the drawn export sets.
type RunPrinter struct{}

// NewRunPrinter creates a new RunPrinter
func NewRunPrinter() *RunPrinter {
	return &RunPrinter{}
}

// PrintPools prints one table row per category pool
func (p *RunPrinter) PrintPools(scn *scene.Scene) {
	pools := scn.Categories()
	if len(pools) == 0 {
		ui.PrintStep("No category pools")
		return
	}

	ui.PrintTableHeader("Category", "Objects", "Members")
	for _, pool := range pools {
		var names []string
		for _, obj := range pool.Objects {
			names = append(names, obj.Name)
		}
		ui.PrintTableRow(pool.Name, strconv.Itoa(len(pool.Objects)), strings.Join(names, ", "))
	}
}

// PrintDispositions prints the classification outcome per asset, failures
// with their reasons
func (p *RunPrinter) PrintDispositions(assets []classify.Asset) {
	if len(assets) == 0 {
		ui.PrintStep("No assets classified")
		return
	}

	for _, asset := range assets {
		label := fmt.Sprintf("%s [%s]", asset.Object.Name, asset.Disposition)
		switch asset.Disposition {
		case classify.Failed:
			ui.PrintStep(fmt.Sprintf("✗ %s: %s", label, asset.Reason))
		case classify.Mandatory:
			ui.PrintStep(fmt.Sprintf("★ %s", label))
		default:
			ui.PrintStep(fmt.Sprintf("• %s", label))
		}
	}
}

// PrintSets prints every export set with its members
func (p *RunPrinter) PrintSets(scn *scene.Scene) {
	export, ok := scn.Container(scene.ContainerExport)
	if !ok || len(export.Children) == 0 {
		ui.PrintStep("No export sets")
		return
	}

	for _, set := range export.Children {
		ui.PrintHighlight(set.Name)
		for _, obj := range set.Objects {
			ui.PrintItem(obj.Name)
		}
	}
}

// PrintFeedback prints run diagnostics at their severity
func (p *RunPrinter) PrintFeedback(feedback []scene.Feedback) {
	for _, fb := range feedback {
		switch fb.Level {
		case scene.LevelError:
			ui.PrintError(fb.Msg)
		case scene.LevelWarning:
			ui.PrintWarning(fb.Msg)
		default:
			ui.PrintInfo(fb.Msg)
		}
	}
}
