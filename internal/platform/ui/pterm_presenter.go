package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/pterm/pterm"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
)

// PTermPresenter renders streams with pterm styling.
type PTermPresenter struct {
	mu    sync.Mutex
	w     io.Writer
	info  StreamInfo
	total int
	done  int
	found []domain.FoundEvent
}

func NewPTermPresenter(w io.Writer) *PTermPresenter {
	return &PTermPresenter{w: w}
}

func (p *PTermPresenter) println(a ...any) { pterm.Fprintln(p.w, a...) }

func (p *PTermPresenter) Start(info StreamInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.info = info

	p.println(pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprint("sleuth - " + info.Kind))

	body := fmt.Sprintf("%s Subject: %s\n", IconTarget, pterm.Cyan(info.Subject))
	if info.Tool != "" {
		body += fmt.Sprintf("%s Tool: %s\n", IconTool, pterm.Yellow(info.Tool))
	}
	body += fmt.Sprintf("%s Server: %s", IconInfo, info.Server)

	p.println(pterm.DefaultBox.
		WithTitle("Stream").
		WithTitleTopCenter().
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(body))
	p.println(pterm.LightBlue(SeparatorHeavy))
}

func (p *PTermPresenter) Found(ev domain.FoundEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.found = append(p.found, ev)

	p.println(fmt.Sprintf("%s %s %s",
		StatusSuccess.Style().Sprint(StatusSuccess.Symbol()),
		StylePrimary.Sprint(ev.Name),
		ev.URL,
	))
}

func (p *PTermPresenter) Progress(ev domain.ProfileProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Status {
	case domain.StatusStarting:
		p.total = ev.Total
		p.println(fmt.Sprintf("%s Scraping %d profiles", StatusRunning.Style().Sprint(StatusRunning.Symbol()), ev.Total))
	case domain.StatusProfile:
		p.done++
		name, detail := "(unnamed)", ""
		if ev.Profile != nil {
			if n := domain.Deref(ev.Profile.Name); n != "" {
				name = n
			}
			detail = domain.Deref(ev.Profile.Title)
			if loc := domain.Deref(ev.Profile.Location); loc != "" {
				detail += " · " + loc
			}
		}
		p.println(fmt.Sprintf("%s %s %s %s %s",
			p.counter(),
			StatusSuccess.Style().Sprint(StatusSuccess.Symbol()),
			IconProfile,
			StylePrimary.Sprint(name),
			StyleSecondary.Sprint(detail),
		))
	case domain.StatusError:
		p.done++
		p.println(fmt.Sprintf("%s %s %s",
			p.counter(),
			StatusError.Style().Sprint(StatusError.Symbol()),
			StyleError.Sprint(ev.Error),
		))
	case domain.StatusComplete:
		p.println(StyleSuccess.Sprint("Scrape complete"))
	}
}

func (p *PTermPresenter) counter() string {
	if p.total == 0 {
		return fmt.Sprintf("[%d]", p.done)
	}
	return fmt.Sprintf("[%d/%d]", p.done, p.total)
}

func (p *PTermPresenter) Fault(ev domain.FaultEvent) {
	p.println(pterm.Error.Sprint("stream failed: " + ev.Error))
}

func (p *PTermPresenter) Tools(tools []ports.ToolMetadata) {
	data := pterm.TableData{{"Tool", "Description", "Install"}}
	for _, t := range tools {
		data = append(data, []string{string(t.Name), t.Description, t.Install})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		p.println(pterm.Error.Sprint(err.Error()))
		return
	}
	p.println(out)
}

func (p *PTermPresenter) Info(msg string)    { p.println(pterm.Info.Sprint(msg)) }
func (p *PTermPresenter) Warning(msg string) { p.println(pterm.Warning.Sprint(msg)) }
func (p *PTermPresenter) Error(msg string)   { p.println(pterm.Error.Sprint(msg)) }

func (p *PTermPresenter) Finish(stats StreamStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.println(pterm.LightBlue(SeparatorHeavy))

	if len(p.found) > 0 {
		data := pterm.TableData{{"Site", "URL"}}
		for _, f := range p.found {
			data = append(data, []string{f.Name, f.URL})
		}
		if out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender(); err == nil {
			p.println(out)
		}
	}

	status := StatusSuccess
	switch {
	case stats.Faulted:
		status = StatusError
	case stats.Interrupted || stats.Failures > 0:
		status = StatusWarning
	}

	summary := fmt.Sprintf("%s %s  %s %s", status.Style().Sprint(status.Symbol()), status, IconTime, formatDuration(stats.Duration))
	switch p.info.Kind {
	case "leads":
		summary += fmt.Sprintf("  profiles=%d failures=%d", stats.Profiles, stats.Failures)
	default:
		summary += fmt.Sprintf("  found=%d", stats.Found)
	}
	if stats.Interrupted {
		summary += "  (interrupted)"
	}
	p.println(summary)
}

func (p *PTermPresenter) Close() error { return nil }
