//go:build windows

package platform

import (
	"context"
	"fmt"
	"os"
	"time"
	"unicode"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Cromyyx/shellshock-trainer-wind/internal/model"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW      = user32.NewProc("FindWindowW")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
	procGetClientRect    = user32.NewProc("GetClientRect")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procScreenToClient   = user32.NewProc("ScreenToClient")
)

type point struct {
	X int32
	Y int32
}

// Window is a game window found by title.
type Window struct {
	hwnd     uintptr
	bindings Bindings
}

// FindWindow polls for a top-level window with the given title every
// interval until it appears or ctx is done.
func FindWindow(ctx context.Context, title string, bindings Bindings, interval time.Duration) (Handle, error) {
	for _, key := range bindings {
		if _, ok := virtualKey(key); !ok {
			return nil, fmt.Errorf("key %q has no virtual-key code (use 0-9 or A-Z)", key)
		}
	}
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return nil, fmt.Errorf("invalid window title: %w", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
		hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(titlePtr)))
		if hwnd != 0 {
			return &Window{hwnd: hwnd, bindings: bindings}, nil
		}
	}
}

// IsPressed implements Handle.
func (w *Window) IsPressed(cmd Command) bool {
	key, ok := w.bindings[cmd]
	if !ok {
		return false
	}
	vk, ok := virtualKey(key)
	if !ok {
		return false
	}
	state, _, _ := procGetAsyncKeyState.Call(vk)
	// The most significant bit is set while the key is down.
	return int16(state) < 0
}

// WindowExtent implements Handle.
func (w *Window) WindowExtent() model.Extent {
	var rect windows.Rect
	ok, _, err := procGetClientRect.Call(w.hwnd, uintptr(unsafe.Pointer(&rect)))
	if ok == 0 {
		logErrf("[ERROR] Failed to get client rect. Is game window active? (%v)\n", err)
		return model.Extent{}
	}
	width := int(rect.Right - rect.Left)
	height := int(rect.Bottom - rect.Top)
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return model.Extent{Width: width, Height: height}
}

// Cursor implements Handle.
func (w *Window) Cursor() model.Point {
	var pt point
	if ok, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt))); ok == 0 {
		logErrf("[ERROR] Failed to get cursor position. (%v)\n", err)
		return model.Point{}
	}
	if ok, _, err := procScreenToClient.Call(w.hwnd, uintptr(unsafe.Pointer(&pt))); ok == 0 {
		logErrf("[ERROR] Failed to convert screen to client coordinates. (%v)\n", err)
		return model.Point{}
	}
	return model.Point{X: int(pt.X), Y: int(pt.Y)}
}

// virtualKey maps digits and letters to their virtual-key codes, which
// equal the uppercase ASCII value.
func virtualKey(r rune) (uintptr, bool) {
	r = unicode.ToUpper(r)
	if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
		return uintptr(r), true
	}
	return 0, false
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
