package ui

import (
	"context"

	"github.com/ppiankov/askmode/internal/mode"
	"github.com/ppiankov/askmode/internal/model"
)

type staticHost struct {
	tools model.CapabilitySet
}

func (h *staticHost) ActiveTools() model.CapabilitySet { return h.tools.Clone() }
func (h *staticHost) SetActiveTools(tools model.CapabilitySet) { h.tools = tools.Clone() }
func (h *staticHost) SendUserMessage(string, mode.Delivery) {}
func (h *staticHost) WaitForIdle(context.Context) error { return nil }
