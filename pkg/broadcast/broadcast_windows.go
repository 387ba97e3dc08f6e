//go:build windows

package broadcast

import (
	"context"
	"fmt"
	"unsafe"

	envedit "github.com/goliatone/go-envedit"
	"golang.org/x/sys/windows"
)

const (
	hwndBroadcast   = 0xffff
	wmSettingChange = 0x001a
	smtoNormal      = 0x0000
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeout = user32.NewProc("SendMessageTimeoutW")
	environmentSection     = windows.StringToUTF16Ptr("Environment")
)

// BroadcastChange sends WM_SETTINGCHANGE("Environment") and waits at most
// the configured timeout per window.
func (b *Broadcaster) BroadcastChange(ctx context.Context, _ envedit.Change) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := procSendMessageTimeout.Find(); err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	var result uintptr
	ret, _, callErr := procSendMessageTimeout.Call(
		uintptr(hwndBroadcast),
		uintptr(wmSettingChange),
		0,
		uintptr(unsafe.Pointer(environmentSection)),
		uintptr(smtoNormal),
		uintptr(b.timeout.Milliseconds()),
		uintptr(unsafe.Pointer(&result)),
	)
	if ret == 0 && callErr != windows.ERROR_SUCCESS && callErr != windows.ERROR_TIMEOUT {
		return fmt.Errorf("broadcast: SendMessageTimeout: %w", callErr)
	}
	return nil
}
