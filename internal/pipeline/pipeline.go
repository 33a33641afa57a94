// Package pipeline plans and executes one full assembly run: scan the import
// root, import and classify components, optionally expand texture variants,
// draw combinations, and export them. Steps share a per-run Context; nothing
// survives between runs.
package pipeline

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/user/avatarset/internal/classify"
	"github.com/user/avatarset/internal/combine"
	"github.com/user/avatarset/internal/export"
	"github.com/user/avatarset/internal/index"
	"github.com/user/avatarset/internal/preconditions"
	"github.com/user/avatarset/internal/scene"
	"github.com/user/avatarset/internal/ui"
	"github.com/user/avatarset/internal/variants"
)

// Options configure one pipeline run.
type Options struct {
	ImportRoot      string
	ExportDir       string
	Combinations    int
	Extension       string // Component file extension, e.g. "fbx".
	ExportExtension string // Packaged output extension, e.g. "glb".
	Seed            int64  // 0 draws a time-based seed.
	TextureVariants bool
}

// Context holds the shared state between the steps of one run.
type Context struct {
	Options Options
	Scene   *scene.Scene
	RNG     *rand.Rand

	Candidates   []index.Candidate
	Assets       []classify.Asset
	Combinations [][]*scene.Object
	Feedback     []scene.Feedback
}

func (c *Context) report(fb ...scene.Feedback) {
	c.Feedback = append(c.Feedback, fb...)
}

// Step is a single stage of the plan.
type Step interface {
	Name() string
	Execute(ctx *Context) error
}

// Plan is an ordered list of steps over one shared context.
type Plan struct {
	Steps []Step
	ctx   *Context
}

// Planner assembles plans around the injected host collaborators.
type Planner struct {
	Importer scene.Importer
	Merger   scene.Merger
	Exporter scene.Exporter
}

// NewPlanner creates a planner with the given collaborators.
func NewPlanner(importer scene.Importer, merger scene.Merger, exporter scene.Exporter) *Planner {
	return &Planner{Importer: importer, Merger: merger, Exporter: exporter}
}

// CreatePlan builds the full import-combine-export plan.
func (p *Planner) CreatePlan(scn *scene.Scene, opts Options) *Plan {
	plan := p.CreatePreviewPlan(scn, opts)
	plan.Steps = append(plan.Steps, &ExportStep{Exporter: p.Exporter})
	return plan
}

// CreatePreviewPlan builds the same plan without the export stage, for dry
// runs that only report what would be drawn.
func (p *Planner) CreatePreviewPlan(scn *scene.Scene, opts Options) *Plan {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Plan{
		ctx: &Context{
			Options: opts,
			Scene:   scn,
			RNG:     rand.New(rand.NewSource(seed)),
		},
		Steps: []Step{
			&InitSceneStep{},
			&CheckPreconditionsStep{},
			&ImportSortStep{Importer: p.Importer, Merger: p.Merger},
			&ExpandVariantsStep{},
			&DrawCombinationsStep{},
		},
	}
}

// Execute runs all steps in order. Per-item problems accumulate as feedback;
// a step error is a batch-level failure and stops the run.
func (p *Plan) Execute() ([]scene.Feedback, error) {
	if ui.IsVerbose() {
		ui.PrintTitle("Avatar Assembly")
		ui.PrintInfo(fmt.Sprintf("Total steps: %d", len(p.Steps)))
		ui.PrintSeparator()
	}

	for i, step := range p.Steps {
		if ui.IsVerbose() {
			ui.PrintHeader(fmt.Sprintf("Step %d/%d: %s", i+1, len(p.Steps), step.Name()))
		}
		if err := step.Execute(p.ctx); err != nil {
			return p.ctx.Feedback, err
		}
	}
	return p.ctx.Feedback, nil
}

// Context exposes the run state, for reporting after Execute.
func (p *Plan) Context() *Context {
	return p.ctx
}

// InitSceneStep fills the scene with one container per category folder and
// scans the import root for candidate component files.
type InitSceneStep struct{}

func (s *InitSceneStep) Name() string { return "Initialize scene" }

func (s *InitSceneStep) Execute(ctx *Context) error {
	categories := index.Subfolders(ctx.Options.ImportRoot)
	ctx.Scene.AddCategories(categories)
	ctx.Candidates = index.Scan(ctx.Options.ImportRoot, ctx.Options.Extension)

	ui.PrintSuccess(fmt.Sprintf("Found %d file(s) in %d categor(ies)", len(ctx.Candidates), len(categories)))
	return nil
}

// CheckPreconditionsStep validates the import root layout and the candidate
// files. Any failure here is a batch-level input error: the pipeline halts
// before producing partial output.
type CheckPreconditionsStep struct{}

func (s *CheckPreconditionsStep) Name() string { return "Check preconditions" }

func (s *CheckPreconditionsStep) Execute(ctx *Context) error {
	if err := preconditions.Check(ctx.Options.ImportRoot); err != nil {
		return err
	}

	if len(ctx.Candidates) == 0 {
		return fmt.Errorf("no %s files to import under %s", ctx.Options.Extension, ctx.Options.ImportRoot)
	}

	paths := make([]string, len(ctx.Candidates))
	for i, candidate := range ctx.Candidates {
		paths[i] = candidate.Path
	}
	return preconditions.ValidateFiles(paths)
}

// ImportSortStep runs the classifier over the candidate list.
type ImportSortStep struct {
	Importer scene.Importer
	Merger   scene.Merger
}

func (s *ImportSortStep) Name() string { return "Import and sort components" }

func (s *ImportSortStep) Execute(ctx *Context) error {
	classifier := &classify.Classifier{
		Scene:    ctx.Scene,
		Importer: s.Importer,
		Merger:   s.Merger,
	}
	assets, feedback := classifier.ImportSort(ctx.Candidates)
	ctx.Assets = assets
	ctx.report(feedback...)

	accepted, failed := 0, 0
	for _, asset := range assets {
		switch asset.Disposition {
		case classify.Accepted:
			accepted++
		case classify.Failed:
			failed++
		}
	}
	ui.PrintSuccess(fmt.Sprintf("Classified %d asset(s): %d accepted, %d failed", len(assets), accepted, failed))
	return nil
}

// ExpandVariantsStep copies accepted assets once per texture variant found
// on disk. Skipped unless enabled in the options.
type ExpandVariantsStep struct{}

func (s *ExpandVariantsStep) Name() string { return "Expand texture variants" }

func (s *ExpandVariantsStep) Execute(ctx *Context) error {
	if !ctx.Options.TextureVariants {
		if ui.IsVerbose() {
			ui.PrintInfo("Texture variants disabled, skipping")
		}
		return nil
	}

	expander := variants.NewExpander(ctx.Scene)
	var added []classify.Asset
	for _, asset := range ctx.Assets {
		added = append(added, expander.Expand(asset)...)
	}
	ctx.Assets = append(ctx.Assets, added...)

	ui.PrintSuccess(fmt.Sprintf("Expanded %d variant asset(s)", len(added)))
	return nil
}

// DrawCombinationsStep draws the requested number of combinations and links
// each one into a named export set. Zero combinations is a batch-level
// failure: it means a factor pool ended up empty.
type DrawCombinationsStep struct{}

func (s *DrawCombinationsStep) Name() string { return "Draw combinations" }

func (s *DrawCombinationsStep) Execute(ctx *Context) error {
	mandatory, ok := ctx.Scene.Container(scene.ContainerMandatory)
	if !ok {
		return scene.ErrNotInitialized
	}

	combos := combine.Draw(ctx.RNG, ctx.Scene.Categories(), mandatory.Objects, ctx.Options.Combinations)
	if len(combos) == 0 {
		return fmt.Errorf("combining avatar components failed: a category pool is empty")
	}
	ctx.Combinations = combos

	for _, combo := range combos {
		name := combine.Identity(combo)
		if _, err := ctx.Scene.NewExportSet(name, combo); err != nil {
			return err
		}
		if ui.IsVerbose() {
			ui.PrintItem(name)
		}
	}

	ui.PrintSuccess(fmt.Sprintf("Drew %d combination(s)", len(combos)))
	return nil
}

// ExportStep drives the exporter over every export set.
type ExportStep struct {
	Exporter scene.Exporter
}

func (s *ExportStep) Name() string { return "Export combinations" }

func (s *ExportStep) Execute(ctx *Context) error {
	driver := &export.Driver{Scene: ctx.Scene, Exporter: s.Exporter}
	feedback, err := driver.ExportAll(ctx.Options.ExportDir, ctx.Options.ExportExtension)
	ctx.report(feedback...)
	if err != nil {
		return err
	}

	exported := 0
	for _, fb := range feedback {
		if fb.Level == scene.LevelInfo {
			exported++
		}
	}
	ui.PrintSuccess(fmt.Sprintf("Exported %d of %d combination(s)", exported, len(ctx.Combinations)))
	return nil
}
