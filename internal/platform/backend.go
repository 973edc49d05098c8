package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Pointer button bits as reported in the state field of motion events.
const (
	Button1Mask uint16 = 1 << 8
	Button2Mask uint16 = 1 << 9
	Button3Mask uint16 = 1 << 10
)

// KeyChord is a grabbed modifier mask and keycode pair.
type KeyChord struct {
	Mods    uint16
	Keycode byte
}

// SetupOptions carries what the window manager publishes about itself on init.
type SetupOptions struct {
	Name           string
	WorkspaceNames []string
}

// Backend is the display-server gateway. Requests that return nothing are
// fire-and-forget: the server may reject them (for example when the window
// already vanished) and the window manager reconciles on the next event.
type Backend interface {
	Root() WindowID
	Monitors() ([]Rect, error)
	Setup(opts SetupOptions) error

	GrabKey(spec string) ([]KeyChord, error)
	UngrabKeys()
	GrabMouse(modifier string) error
	UngrabMouse()
	LockMask() uint16

	OverrideRedirect(w WindowID) (bool, error)
	WindowClass(w WindowID) (instance, class string, err error)
	Geometry(w WindowID) (Rect, error)
	FullscreenState(w WindowID) (bool, error)

	Watch(w WindowID)
	SetBorderWidth(w WindowID, width int)
	SetBorderColor(w WindowID, color uint32)
	MoveResize(w WindowID, r Rect)
	Move(w WindowID, x, y int)
	Resize(w WindowID, width, height int)
	Map(w WindowID)
	Unmap(w WindowID)
	Raise(w WindowID)
	Focus(w WindowID)
	Close(w WindowID)
	Configure(req ConfigureRequest)

	SetFullscreenState(w WindowID, on bool)
	SetClientList(windows []WindowID)
	SetCurrentDesktop(index int)
	SetWindowDesktop(w WindowID, index int)
}
