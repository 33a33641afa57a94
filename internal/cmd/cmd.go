package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/user/avatarset/internal/config"
	"github.com/user/avatarset/internal/fshost"
	"github.com/user/avatarset/internal/inspect"
	"github.com/user/avatarset/internal/pipeline"
	"github.com/user/avatarset/internal/scene"
	"github.com/user/avatarset/internal/ui"
	"github.com/user/avatarset/version"
)

type CLI struct {
	Run        *RunCmd        `cmd:"" help:"Draw avatar combinations and export them as bundles"`
	Preview    *PreviewCmd    `cmd:"" help:"Draw combinations and report them without exporting"`
	Inspect    *InspectCmd    `cmd:"" help:"Inspect an exported bundle and show its contents"`
	Version    *VersionCmd    `cmd:"" help:"Show version information"`
	Completion *CompletionCmd `cmd:"" help:"Generate shell completion script"`
}

// RunFlags are the flags shared by run and preview. Every flag overrides the
// corresponding config file value.
type RunFlags struct {
	Config          string `help:"YAML config file" short:"f" type:"existingfile"`
	ImportRoot      string `help:"Folder with one subfolder per component category" short:"i"`
	ExportDir       string `help:"Folder the exported bundles are written to" short:"o"`
	Combinations    int    `help:"Number of unique combinations to draw" short:"n"`
	Seed            int64  `help:"Random seed, 0 draws a fresh one" short:"s"`
	Extension       string `help:"Component file extension"`
	ExportExtension string `help:"Exported bundle extension"`
	TextureVariants bool   `help:"Also generate one copy per texture variant found on disk" short:"t"`
}

// resolve merges the config file, environment and flags into run options.
func (f *RunFlags) resolve() (pipeline.Options, error) {
	var cfg *config.Config
	loader := config.NewLoader()

	if f.Config != "" {
		loaded, err := loader.Load(f.Config)
		if err != nil {
			return pipeline.Options{}, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		if err := loader.ApplyEnv(cfg); err != nil {
			return pipeline.Options{}, err
		}
	}

	if f.ImportRoot != "" {
		cfg.ImportRoot = f.ImportRoot
	}
	if f.ExportDir != "" {
		cfg.ExportDir = f.ExportDir
	}
	if f.Combinations != 0 {
		cfg.Combinations = f.Combinations
	}
	if f.Seed != 0 {
		cfg.Seed = f.Seed
	}
	if f.Extension != "" {
		cfg.Extension = f.Extension
	}
	if f.ExportExtension != "" {
		cfg.ExportExtension = f.ExportExtension
	}
	if f.TextureVariants {
		cfg.TextureVariants = true
	}

	if err := loader.Validate(cfg); err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		ImportRoot:      cfg.ImportRoot,
		ExportDir:       cfg.ExportDir,
		Combinations:    cfg.Combinations,
		Seed:            cfg.Seed,
		Extension:       cfg.Extension,
		ExportExtension: cfg.ExportExtension,
		TextureVariants: cfg.TextureVariants,
	}, nil
}

type RunCmd struct {
	RunFlags
}

// Help adds additional help text with examples
func (c *RunCmd) Help() string {
	return renderRunHelp()
}

func (c *RunCmd) Run() error {
	opts, err := c.resolve()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.ExportDir, 0o755); err != nil {
		return fmt.Errorf("cannot create export directory: %w", err)
	}

	scn := scene.New()
	planner := pipeline.NewPlanner(fshost.Importer{}, fshost.Merger{}, &fshost.Exporter{Scene: scn})
	plan := planner.CreatePlan(scn, opts)

	feedback, err := plan.Execute()
	printer := inspect.NewRunPrinter()
	printer.PrintFeedback(feedback)
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Done. Bundles written to %s", opts.ExportDir))
	return nil
}

type PreviewCmd struct {
	RunFlags
}

func (c *PreviewCmd) Run() error {
	opts, err := c.resolve()
	if err != nil {
		return err
	}

	scn := scene.New()
	planner := pipeline.NewPlanner(fshost.Importer{}, fshost.Merger{}, &fshost.Exporter{Scene: scn})
	plan := planner.CreatePreviewPlan(scn, opts)

	feedback, err := plan.Execute()
	printer := inspect.NewRunPrinter()
	printer.PrintFeedback(feedback)
	if err != nil {
		return err
	}

	ui.PrintHeader("Category pools")
	printer.PrintPools(scn)
	ui.PrintHeader("Assets")
	printer.PrintDispositions(plan.Context().Assets)
	ui.PrintHeader("Combinations")
	printer.PrintSets(scn)
	return nil
}

type InspectCmd struct {
	File string `arg:"" help:"Bundle file to inspect"`
}

func (c *InspectCmd) Run() error {
	inspector := inspect.NewInspector()
	return inspector.Inspect(c.File)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := version.Get()
	fmt.Println(info.String())
	return nil
}

// Parse parses command line arguments and executes the appropriate command
func Parse() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("avatarset"),
		kong.Description("Combinatorial avatar assembler: imports tagged components, draws unique combinations, and exports them as bundles"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
