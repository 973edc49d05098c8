package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Monitors returns the physical screens in server order. Xinerama heads are
// preferred, then RandR CRTCs, and finally the root window geometry so that
// a bare X server still yields one screen.
func (c *Connection) Monitors() ([]Monitor, error) {
	if c.XUtil.ExtInitialized("XINERAMA") {
		heads, err := xinerama.PhysicalHeads(c.XUtil)
		if err == nil && len(heads) > 0 {
			monitors := make([]Monitor, 0, len(heads))
			for i, head := range heads {
				monitors = append(monitors, Monitor{
					ID:     i,
					Name:   fmt.Sprintf("head%d", i),
					X:      head.X(),
					Y:      head.Y(),
					Width:  head.Width(),
					Height: head.Height(),
				})
			}
			return monitors, nil
		}
	}

	if monitors, err := c.randrMonitors(); err == nil && len(monitors) > 0 {
		return monitors, nil
	}

	geom, err := xwindow.RawGeometry(c.XUtil, xproto.Drawable(c.Root))
	if err != nil {
		return nil, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return []Monitor{{
		Name:   "root",
		X:      geom.X(),
		Y:      geom.Y(),
		Width:  geom.Width(),
		Height: geom.Height(),
	}}, nil
}

// randrMonitors retrieves all active CRTCs using XRandR.
func (c *Connection) randrMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("crtc%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     len(monitors),
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return monitors, nil
}
