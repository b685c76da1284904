// generate_index renders README.md into dist/index.html for the release page,
// replacing the Installation section with links to the built archives.
package main

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const binaryName = "tblcfg"

// archivePattern matches goreleaser archives: tblcfg_VERSION_OS_ARCH.ext.
var archivePattern = regexp.MustCompile(`^` + binaryName + `_(.+)_(Darwin|Linux|Windows)_(arm64|x86_64)\.(tar\.gz|zip)$`)

var platformNames = map[string]string{
	"Darwin_arm64":   "macOS (Apple Silicon)",
	"Darwin_x86_64":  "macOS (Intel)",
	"Linux_arm64":    "Linux (ARM64)",
	"Linux_x86_64":   "Linux (x86_64)",
	"Windows_arm64":  "Windows (ARM64)",
	"Windows_x86_64": "Windows (x86_64)",
}

type archive struct {
	Platform string
	File     string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	distDir := os.Args[1]

	readme, err := os.ReadFile("README.md")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading README.md: %v\n", err)
		os.Exit(1)
	}
	entries, err := os.ReadDir(distDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", distDir, err)
		os.Exit(1)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	indexPath := filepath.Join(distDir, "index.html")
	f, err := os.Create(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating index.html: %v\n", err)
		os.Exit(1)
	}
	if err := writeIndex(f, readme, names); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error writing index.html: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing index.html: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generated %s\n", indexPath)
}

// writeIndex writes the full page for readme and the dist file names.
func writeIndex(w io.Writer, readme []byte, distFiles []string) error {
	version, archives := findArchives(distFiles)
	body := replaceInstallationSection(renderMarkdown(readme), downloadsHTML(version, archives))
	if _, err := io.WriteString(w, pageHeader); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	_, err := io.WriteString(w, pageFooter)
	return err
}

func renderMarkdown(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return markdown.Render(p.Parse(md), renderer)
}

// findArchives picks the release archives out of names, one per platform,
// and the version they were built for.
func findArchives(names []string) (string, []archive) {
	version := "unknown"
	byPlatform := map[string]string{}
	for _, name := range names {
		m := archivePattern.FindStringSubmatch(name)
		if m == nil || strings.Contains(name, "SHA256") {
			continue
		}
		if version == "unknown" {
			version = m[1]
		}
		key := m[2] + "_" + m[3]
		if _, ok := byPlatform[key]; !ok {
			byPlatform[key] = name
		}
	}
	keys := make([]string, 0, len(byPlatform))
	for k := range byPlatform {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]archive, 0, len(keys))
	for _, k := range keys {
		out = append(out, archive{Platform: platformNames[k], File: byPlatform[k]})
	}
	return version, out
}

func downloadsHTML(version string, archives []archive) string {
	var sb strings.Builder
	sb.WriteString("  <div class=\"downloads\">\n    <h2>Downloads</h2>\n")
	fmt.Fprintf(&sb, "    <h3>%s</h3>\n    <table class=\"download-table\">\n", html.EscapeString(version))
	for _, a := range archives {
		fmt.Fprintf(&sb, "      <tr><td class=\"platform-name\">%s</td><td><a href=\"%s\">download</a></td></tr>\n",
			html.EscapeString(a.Platform), html.EscapeString(a.File))
	}
	sb.WriteString("    </table>\n  </div>\n")
	return sb.String()
}

// replaceInstallationSection swaps the README's Installation section for the
// downloads table. The page is returned unchanged when the section is missing
// or is the last one.
func replaceInstallationSection(page []byte, downloads string) []byte {
	s := string(page)
	start := strings.Index(s, `<h2 id="installation">`)
	if start == -1 {
		return page
	}
	rest := s[start+len(`<h2 id="installation">`):]
	next := strings.Index(rest, `<h2 id="`)
	if next == -1 {
		return page
	}
	end := len(s) - len(rest) + next

	replacement := `<h2 id="installation">Installation</h2>

` + downloads + `
<p>Extract the archive and put the binary on your PATH:</p>

<pre><code class="language-bash">tar -xzf ` + binaryName + `_*.tar.gz
sudo mv ` + binaryName + ` /usr/local/bin/
</code></pre>

`
	return []byte(s[:start] + replacement + s[end:])
}

const pageHeader = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>tblcfg - persisted table columns</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    h1 { color: #0f766e; border-bottom: 2px solid #0f766e; padding-bottom: 10px; }
    h2 { color: #115e59; margin-top: 30px; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
    pre { background: #1e293b; color: #e2e8f0; padding: 16px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; padding: 0; }
    .downloads { background: #f0fdfa; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #0f766e; }
    .download-table { width: 100%; border-collapse: collapse; }
    .download-table td { padding: 6px 8px; }
    .platform-name { font-weight: 500; width: 200px; }
  </style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
