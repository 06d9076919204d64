package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/alessio/shellescape"
	"github.com/zhengda-lu/scanmenu/internal/i18n"
	"github.com/zhengda-lu/scanmenu/internal/utils"
)

const (
	nautilusScriptName = "Scan for threats"
	nemoItemName       = "scanmenu-item.nemo_action"
	nemoBackgroundName = "scanmenu-directory.nemo_action"
	kdeServiceName     = "scanmenu.desktop"
)

const nautilusTpl = `#!/bin/sh
# Installed by scanmenu.
set -f
if [ -n "$NAUTILUS_SCRIPT_SELECTED_URIS" ]; then
	exec {{shquote .Binary}} item $NAUTILUS_SCRIPT_SELECTED_URIS
fi
exec {{shquote .Binary}} background "$NAUTILUS_SCRIPT_CURRENT_URI"
`

const nemoItemTpl = `[Nemo Action]
Name={{ini .ItemLabel}}
Comment={{ini .ItemTip}}
Exec={{execquote .Binary}} item %U
Icon-Name={{ini .Icon}}
Selection=s
Extensions=any;
`

const nemoBackgroundTpl = `[Nemo Action]
Name={{ini .BackgroundLabel}}
Comment={{ini .BackgroundTip}}
Exec={{execquote .Binary}} background --path %P
Icon-Name={{ini .Icon}}
Selection=none
Extensions=any;
`

const kdeTpl = `[Desktop Entry]
Type=Service
MimeType=all/all;
Actions=scanForThreats;
X-KDE-ServiceTypes=KonqPopupMenu/Plugin
X-KDE-Priority=TopLevel
X-KDE-RequiredNumberOfUrls=1

[Desktop Action scanForThreats]
Name={{ini .ItemLabel}}
Comment={{ini .SelectionTip}}
Icon={{ini .Icon}}
Exec={{execquote .Binary}} item %U
`

// Options fills the integration templates.
type Options struct {
	Binary     string
	Icon       string
	Translator i18n.Translator
}

// File is one definition file a file manager reads its menu entries from.
type File struct {
	Path    string
	Content string
	Mode    os.FileMode
}

type fileSpec struct {
	rel  string
	tpl  string
	mode os.FileMode
}

var targets = map[string][]fileSpec{
	"nautilus": {
		{filepath.Join("nautilus", "scripts", nautilusScriptName), nautilusTpl, 0o755},
	},
	"nemo": {
		{filepath.Join("nemo", "actions", nemoItemName), nemoItemTpl, 0o644},
		{filepath.Join("nemo", "actions", nemoBackgroundName), nemoBackgroundTpl, 0o644},
	},
	"kde": {
		{filepath.Join("kio", "servicemenus", kdeServiceName), kdeTpl, 0o755},
	},
}

// Targets lists the supported file managers.
func Targets() []string {
	return []string{"nautilus", "nemo", "kde"}
}

// templateData holds the template fields for every target.
type templateData struct {
	Binary          string
	Icon            string
	ItemLabel       string
	ItemTip         string
	SelectionTip    string
	BackgroundLabel string
	BackgroundTip   string
}

var funcs = template.FuncMap{
	"shquote":   shellescape.Quote,
	"execquote": execQuote,
	"ini":       iniValue,
}

func lookup(target string) ([]fileSpec, error) {
	specs, ok := targets[target]
	if !ok {
		return nil, fmt.Errorf("unknown file manager %q (use %s)", target, strings.Join(Targets(), ", "))
	}
	return specs, nil
}

// Paths returns the files target installs under dataDir.
func Paths(target, dataDir string) ([]string, error) {
	specs, err := lookup(target)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(specs))
	for _, s := range specs {
		paths = append(paths, filepath.Join(dataDir, s.rel))
	}
	return paths, nil
}

// Generate renders the definition files for target without writing them.
func Generate(target, dataDir string, opts Options) ([]File, error) {
	specs, err := lookup(target)
	if err != nil {
		return nil, err
	}
	if opts.Binary == "" {
		return nil, fmt.Errorf("no scanmenu binary path given")
	}

	tr := opts.Translator
	if tr == nil {
		tr = i18n.PassThrough{}
	}
	data := templateData{
		Binary:          opts.Binary,
		Icon:            opts.Icon,
		ItemLabel:       tr.Sprintf(i18n.ItemLabel),
		ItemTip:         tr.Sprintf(i18n.ItemTip, "%N"),
		SelectionTip:    tr.Sprintf(i18n.SelectionTip),
		BackgroundLabel: tr.Sprintf(i18n.BackgroundLabel),
		BackgroundTip:   tr.Sprintf(i18n.BackgroundTip),
	}

	files := make([]File, 0, len(specs))
	for _, s := range specs {
		tmpl, err := template.New(s.rel).Funcs(funcs).Parse(s.tpl)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template for %s: %w", target, err)
		}
		var buf strings.Builder
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", s.rel, err)
		}
		files = append(files, File{
			Path:    filepath.Join(dataDir, s.rel),
			Content: buf.String(),
			Mode:    s.mode,
		})
	}
	return files, nil
}

// Install writes the definition files for target and returns their paths.
func Install(target, dataDir string, opts Options) ([]string, error) {
	files, err := Generate(target, dataDir, opts)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return written, fmt.Errorf("failed to create %s: %w", filepath.Dir(f.Path), err)
		}
		if err := os.WriteFile(f.Path, []byte(f.Content), f.Mode); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		// WriteFile keeps the mode of an existing file.
		if err := os.Chmod(f.Path, f.Mode); err != nil {
			return written, fmt.Errorf("failed to chmod %s: %w", f.Path, err)
		}
		written = append(written, f.Path)
	}
	return written, nil
}

// Uninstall removes the definition files for target. Missing files are
// not an error.
func Uninstall(target, dataDir string) error {
	paths, err := Paths(target, dataDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// Status reports whether every definition file for target is present.
func Status(target, dataDir string) (bool, error) {
	paths, err := Paths(target, dataDir)
	if err != nil {
		return false, err
	}
	for _, p := range paths {
		if !utils.FileExists(p) {
			return false, nil
		}
	}
	return true, nil
}

// execQuote quotes an argument for a desktop-entry Exec key.
func execQuote(s string) string {
	s = strings.ReplaceAll(s, "%", "%%")
	if !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

// iniValue flattens a value onto one key-file line.
func iniValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
