package wm

import (
	"slices"

	"github.com/1broseidon/lapin/internal/config"
)

// reconfigure swaps in a new configuration while windows stay where they
// are. The workspace set is fixed for the lifetime of the process.
func (m *Manager) reconfigure(cfg *config.Config) error {
	prev := m.cfg
	if err := m.apply(cfg); err != nil {
		return err
	}
	if !slices.Equal(prev.Workspaces, cfg.Workspaces) {
		m.logger.Warn("workspace changes take effect after a restart")
	}
	m.drag = nil

	m.grabKeys()
	if cfg.MouseModifier != prev.MouseModifier {
		m.backend.UngrabMouse()
		if err := m.backend.GrabMouse(cfg.MouseModifier); err != nil {
			m.logger.Warn("mouse modifier not grabbed", "modifier", cfg.MouseModifier, "error", err)
		}
	}

	for si := range m.screens {
		s := &m.screens[si]
		for wi := range s.Workspaces {
			ws := &s.Workspaces[wi]
			if ws.Layout >= len(m.layouts) {
				ws.Layout = len(m.layouts) - 1
			}
			borders := m.layouts[ws.Layout].BorderWidth()
			for _, w := range ws.Managed {
				m.backend.SetBorderWidth(w, borders)
				m.backend.SetBorderColor(w, uint32(cfg.BorderColor))
			}
			for _, w := range ws.Floating {
				if _, fs := m.fullscreen[w]; fs {
					continue
				}
				m.backend.SetBorderWidth(w, cfg.BorderWidth)
				m.backend.SetBorderColor(w, uint32(cfg.BorderColor))
			}
		}
		m.retile(si, s.Current)
	}
	if w, ok := m.workspace().focused(); ok {
		m.backend.SetBorderColor(w, uint32(cfg.FocusBorderColor))
	}
	m.logger.Info("configuration reloaded", "layouts", len(m.layouts), "rules", len(m.rules), "keybinds", len(m.binds))
	return nil
}
