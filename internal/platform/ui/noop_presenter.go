package ui

import (
	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
)

// NoopPresenter prints nothing.
type NoopPresenter struct{}

func NewNoopPresenter() *NoopPresenter { return &NoopPresenter{} }

func (NoopPresenter) Start(StreamInfo) {}
func (NoopPresenter) Found(domain.FoundEvent) {}
func (NoopPresenter) Progress(domain.ProfileProgressEvent) {}
func (NoopPresenter) Fault(domain.FaultEvent) {}
func (NoopPresenter) Tools([]ports.ToolMetadata) {}
func (NoopPresenter) Info(string) {}
func (NoopPresenter) Warning(string) {}
func (NoopPresenter) Error(string) {}
func (NoopPresenter) Finish(StreamStats) {}
func (NoopPresenter) Close() error { return nil }
