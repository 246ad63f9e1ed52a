package installer

import (
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
)

// Presenter prints check and install results.
type Presenter struct {
	w     io.Writer
	quiet bool
}

func NewPresenter(w io.Writer, quiet bool) *Presenter {
	return &Presenter{w: w, quiet: quiet}
}

func (p *Presenter) Header(sys SystemInfo) {
	if p.quiet {
		return
	}
	pterm.Fprintln(p.w, pterm.DefaultHeader.Sprint("sleuth dependency installer"))
	installer := "pip --user"
	if sys.HasPipx {
		installer = "pipx"
	}
	pterm.Fprintln(p.w, fmt.Sprintf("python %s on %s/%s, installing with %s", sys.PythonVersion, sys.OS, sys.Arch, installer))
}

func (p *Presenter) Progress(tool string, phase Phase, msg string) {
	if p.quiet || phase == PhaseDone {
		return
	}
	pterm.Fprintln(p.w, pterm.Gray(fmt.Sprintf("  %s: %s %s", tool, phase, msg)))
}

// Results renders a table of results.
func (p *Presenter) Results(results []Result, elapsed time.Duration) {
	if p.quiet {
		return
	}
	data := pterm.TableData{{"Tool", "Package", "Status", "Version", "Detail"}}
	for _, r := range results {
		detail := ""
		if r.Error != nil {
			detail = r.Error.Error()
		}
		data = append(data, []string{r.Tool.Name, r.Tool.Package, statusText(r.Status), r.Version, detail})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return
	}
	pterm.Fprintln(p.w, table)
	if elapsed > 0 {
		pterm.Fprintln(p.w, fmt.Sprintf("done in %s", elapsed.Round(time.Millisecond)))
	}
}

func statusText(s Status) string {
	switch s {
	case StatusSuccess:
		return pterm.Green("installed")
	case StatusAlreadyInstalled:
		return pterm.Green("ok")
	case StatusMissing:
		return pterm.Yellow("missing")
	case StatusFailed:
		return pterm.Red("failed")
	default:
		return string(s)
	}
}
