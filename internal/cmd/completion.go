package cmd

import (
	"fmt"
	"os"
)

type CompletionCmd struct {
	Shell string `arg:"" help:"Shell type: bash, zsh, or fish"`
}

func (c *CompletionCmd) Run() error {
	switch c.Shell {
	case "bash":
		return c.generateBash()
	case "zsh":
		return c.generateZsh()
	case "fish":
		return c.generateFish()
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", c.Shell)
	}
}

func (c *CompletionCmd) generateBash() error {
	script := `# bash completion for avatarset

_avatarset_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="run preview inspect version completion"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    # Options for run and preview commands
    if [[ ${COMP_WORDS[1]} == "run" || ${COMP_WORDS[1]} == "preview" ]]; then
        case "${prev}" in
            -f|--config)
                COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml)' -- ${cur}) )
                return 0
                ;;
            -i|--import-root|-o|--export-dir)
                COMPREPLY=( $(compgen -d -- ${cur}) )
                return 0
                ;;
            -n|--combinations|-s|--seed|--extension|--export-extension)
                return 0
                ;;
            *)
                opts="-f --config -i --import-root -o --export-dir -n --combinations -s --seed --extension --export-extension -t --texture-variants -h --help"
                COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
                return 0
                ;;
        esac
    fi

    # Options for inspect command
    if [[ ${COMP_WORDS[1]} == "inspect" ]]; then
        if [[ ${cur} == -* ]]; then
            opts="-h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -- ${cur}) )
        fi
        return 0
    fi

    # Options for completion command
    if [[ ${COMP_WORDS[1]} == "completion" ]]; then
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            opts="bash zsh fish"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        fi
        return 0
    fi
}

complete -F _avatarset_completions avatarset
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateZsh() error {
	script := `#compdef avatarset

_avatarset() {
    local -a commands
    commands=(
        'run:Draw avatar combinations and export them as bundles'
        'preview:Draw combinations and report them without exporting'
        'inspect:Inspect an exported bundle and show its contents'
        'version:Show version information'
        'completion:Generate shell completion script'
    )

    local -a run_opts
    run_opts=(
        '(-f --config)'{-f,--config}'[YAML config file]:config file:_files -g "*.{yaml,yml}"'
        '(-i --import-root)'{-i,--import-root}'[Folder with one subfolder per category]:directory:_directories'
        '(-o --export-dir)'{-o,--export-dir}'[Folder the bundles are written to]:directory:_directories'
        '(-n --combinations)'{-n,--combinations}'[Number of combinations to draw]:count:'
        '(-s --seed)'{-s,--seed}'[Random seed]:seed:'
        '--extension[Component file extension]:extension:'
        '--export-extension[Exported bundle extension]:extension:'
        '(-t --texture-variants)'{-t,--texture-variants}'[Expand texture variants]'
        '(-h --help)'{-h,--help}'[Show help]'
    )

    local -a inspect_opts
    inspect_opts=(
        '(-h --help)'{-h,--help}'[Show help]'
        '*:bundle file:_files'
    )

    local -a completion_shells
    completion_shells=(
        'bash:Generate bash completion'
        'zsh:Generate zsh completion'
        'fish:Generate fish completion'
    )

    _arguments -C \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                run|preview)
                    _arguments $run_opts
                    ;;
                inspect)
                    _arguments $inspect_opts
                    ;;
                completion)
                    _describe 'shell' completion_shells
                    ;;
                version)
                    _arguments '(-h --help)'{-h,--help}'[Show help]'
                    ;;
            esac
            ;;
    esac
}

_avatarset
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateFish() error {
	script := `# fish completion for avatarset

# Main commands
complete -c avatarset -f -n "__fish_use_subcommand" -a "run" -d "Draw avatar combinations and export them as bundles"
complete -c avatarset -f -n "__fish_use_subcommand" -a "preview" -d "Draw combinations and report them without exporting"
complete -c avatarset -f -n "__fish_use_subcommand" -a "inspect" -d "Inspect an exported bundle and show its contents"
complete -c avatarset -f -n "__fish_use_subcommand" -a "version" -d "Show version information"
complete -c avatarset -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# run and preview command options
complete -c avatarset -n "__fish_seen_subcommand_from run preview" -s f -l config -d "YAML config file" -r -a "(__fish_complete_suffix .yaml)"
complete -c avatarset -n "__fish_seen_subcommand_from run preview" -s i -l import-root -d "Folder with one subfolder per category" -r -a "(__fish_complete_directories)"
complete -c avatarset -n "__fish_seen_subcommand_from run preview" -s o -l export-dir -d "Folder the bundles are written to" -r -a "(__fish_complete_directories)"
complete -c avatarset -f -n "__fish_seen_subcommand_from run preview" -s n -l combinations -d "Number of combinations to draw" -r
complete -c avatarset -f -n "__fish_seen_subcommand_from run preview" -s s -l seed -d "Random seed" -r
complete -c avatarset -f -n "__fish_seen_subcommand_from run preview" -l extension -d "Component file extension" -r
complete -c avatarset -f -n "__fish_seen_subcommand_from run preview" -l export-extension -d "Exported bundle extension" -r
complete -c avatarset -f -n "__fish_seen_subcommand_from run preview" -s t -l texture-variants -d "Expand texture variants"
complete -c avatarset -f -n "__fish_seen_subcommand_from run preview" -s h -l help -d "Show help"

# inspect command options
complete -c avatarset -f -n "__fish_seen_subcommand_from inspect" -s h -l help -d "Show help"
complete -c avatarset -n "__fish_seen_subcommand_from inspect" -d "Bundle file"

# completion command options
complete -c avatarset -f -n "__fish_seen_subcommand_from completion" -a "bash" -d "Generate bash completion"
complete -c avatarset -f -n "__fish_seen_subcommand_from completion" -a "zsh" -d "Generate zsh completion"
complete -c avatarset -f -n "__fish_seen_subcommand_from completion" -a "fish" -d "Generate fish completion"

# version command options
complete -c avatarset -f -n "__fish_seen_subcommand_from version" -s h -l help -d "Show help"
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) Help() string {
	return `
Generate shell completion scripts for avatarset.

Examples:
  # Bash
  avatarset completion bash > /etc/bash_completion.d/avatarset
  # or
  avatarset completion bash > ~/.local/share/bash-completion/completions/avatarset

  # Zsh
  avatarset completion zsh > ~/.zsh/completion/_avatarset
  # or add to .zshrc:
  autoload -U compinit && compinit

  # Fish
  avatarset completion fish > ~/.config/fish/completions/avatarset.fish
`
}

// For testing purposes
func generateCompletionToFile(shell, filepath string) error {
	// Save current stdout
	oldStdout := os.Stdout

	// Create file
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	// Redirect stdout to file
	os.Stdout = file

	// Generate completion
	cmd := &CompletionCmd{Shell: shell}
	err = cmd.Run()

	// Restore stdout
	os.Stdout = oldStdout

	return err
}
