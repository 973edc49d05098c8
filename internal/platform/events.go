package platform

// Event is a display-server notification already decoded for the window manager.
type Event interface {
	isEvent()
}

// MapRequest asks the window manager to place a new top-level window.
type MapRequest struct {
	Window WindowID
}

// DestroyNotify reports that a window no longer exists.
type DestroyNotify struct {
	Window WindowID
}

// EnterNotify reports that the pointer entered a window.
type EnterNotify struct {
	Window WindowID
}

// KeyPress reports a grabbed key combination.
type KeyPress struct {
	State   uint16
	Keycode byte
}

// ButtonPress reports a grabbed pointer button press over Child.
type ButtonPress struct {
	Child  WindowID
	Button byte
	RootX  int
	RootY  int
}

// ButtonRelease reports the release of a grabbed pointer button.
type ButtonRelease struct{}

// MotionNotify reports pointer motion while a grabbed button is held.
type MotionNotify struct {
	State uint16
	RootX int
	RootY int
}

// ConfigureRequest is a client asking for new geometry. Mask holds the
// ConfigWindow* bits naming which fields are set.
type ConfigureRequest struct {
	Window      WindowID
	Mask        uint16
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
}

// KeyboardMapping reports a keyboard or modifier mapping change.
type KeyboardMapping struct{}

// StateAction is the _NET_WM_STATE client message action.
type StateAction int

const (
	StateRemove StateAction = 0
	StateAdd    StateAction = 1
	StateToggle StateAction = 2
)

// FullscreenRequest is a _NET_WM_STATE client message naming the fullscreen state.
type FullscreenRequest struct {
	Window WindowID
	Action StateAction
}

func (MapRequest) isEvent()        {}
func (DestroyNotify) isEvent()     {}
func (EnterNotify) isEvent()       {}
func (KeyPress) isEvent()          {}
func (ButtonPress) isEvent()       {}
func (ButtonRelease) isEvent()     {}
func (MotionNotify) isEvent()      {}
func (FullscreenRequest) isEvent() {}
func (ConfigureRequest) isEvent()  {}
func (KeyboardMapping) isEvent()   {}
