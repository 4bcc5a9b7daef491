//go:build windows

package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Win32 message and flag constants used by the adapter. Only the subset the
// extraction engine needs is defined here.
const (
	wmGetText       = 0x000D
	wmGetTextLength = 0x000E
	bmClick         = 0x00F5
	bmGetCheck      = 0x00F0

	lbGetCount   = 0x018B
	lbGetText    = 0x0189
	lbGetTextLen = 0x018A
	lbSetCurSel  = 0x0186

	lvmGetItemCount = 0x1004
	lvmSetItemState = 0x102B
	lvmGetItemTextW = 0x1073

	lvisFocused  = 0x0001
	lvisSelected = 0x0002

	hdmGetItemCount = 0x1200

	tvmSelectItem  = 0x110B
	tvmGetNextItem = 0x110A
	tvmGetItemW    = 0x113E

	tvgnRoot     = 0x0000
	tvgnNext     = 0x0001
	tvgnChild    = 0x0004
	tvgnCaret    = 0x0009
	tvifText     = 0x0001
	tvifHandle   = 0x0010
	tvifChildren = 0x0040

	keyEventKeyUp = 0x0002

	vkUp     = 0x26
	vkDown   = 0x28
	vkReturn = 0x0D
	vkEscape = 0x1B
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows          = user32.NewProc("EnumWindows")
	procEnumChildWindows     = user32.NewProc("EnumChildWindows")
	procSendMessageW         = user32.NewProc("SendMessageW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetClassNameW        = user32.NewProc("GetClassNameW")
	procIsWindowEnabled      = user32.NewProc("IsWindowEnabled")
	procIsWindowVisible      = user32.NewProc("IsWindowVisible")
	procSetForegroundWindow  = user32.NewProc("SetForegroundWindow")
	procKeybdEvent           = user32.NewProc("keybd_event")
	procGetWindowThreadPID   = user32.NewProc("GetWindowThreadProcessId")
	procGetMenu              = user32.NewProc("GetMenu")
	procGetSubMenu           = user32.NewProc("GetSubMenu")
	procGetMenuItemCount     = user32.NewProc("GetMenuItemCount")
	procGetMenuItemID        = user32.NewProc("GetMenuItemID")
	procGetMenuStringW       = user32.NewProc("GetMenuStringW")
	procPostMessageW         = user32.NewProc("PostMessageW")
)

const (
	wmCommand    = 0x0111
	mfByPosition = 0x0400
)

// Win32Surface drives the authoring tool through raw win32 messages. Tree
// items are read cross-process: common controls store item data in the
// target process, so TVM_GETITEMW needs a buffer allocated there.
type Win32Surface struct {
	mainTitlePrefix string
	pollInterval    time.Duration
	tool            *os.Process
	closed          bool
}

// NewWin32Surface returns a Surface bound to the top-level window whose
// title starts with mainTitlePrefix.
func NewWin32Surface(mainTitlePrefix string) *Win32Surface {
	return &Win32Surface{
		mainTitlePrefix: mainTitlePrefix,
		pollInterval:    500 * time.Millisecond,
	}
}

// BindProcess ties a launched tool instance to the surface so Close
// terminates it. A restart must not leave the previous instance behind:
// window lookup goes by title prefix and could re-attach to the desynced
// one.
func (s *Win32Surface) BindProcess(p *os.Process) { s.tool = p }

type win32TreeNode struct {
	surface *Win32Surface
	tree    windows.HWND
	item    uintptr
	label   string
}

func (n *win32TreeNode) Text() string { return n.label }

func sendMessage(hwnd windows.HWND, msg uint32, wparam, lparam uintptr) uintptr {
	r, _, _ := procSendMessageW.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	return r
}

func windowText(hwnd windows.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), n+1)
	return windows.UTF16ToString(buf)
}

func className(hwnd windows.HWND) string {
	buf := make([]uint16, 256)
	procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), 256)
	return windows.UTF16ToString(buf)
}

// findTopWindow locates a visible top-level window whose title matches
// exactly or starts with the wanted string.
func findTopWindow(want string) (windows.HWND, bool) {
	var found windows.HWND
	cb := windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		vis, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
		if vis == 0 {
			return 1
		}
		t := windowText(hwnd)
		if t == want || strings.HasPrefix(t, want) {
			found = hwnd
			return 0 // stop enumeration
		}
		return 1
	})
	procEnumWindows.Call(cb, 0)
	return found, found != 0
}

// friendlyName mirrors the automation layer's control naming: the control's
// own text (or the nearest preceding label) concatenated with a short class
// alias, e.g. "NameEdit" or "ConstantCheckBox".
func friendlyName(text, class string) string {
	alias := map[string]string{
		"Edit":          "Edit",
		"Button":        "Button",
		"ComboBox":      "ComboBox",
		"ListBox":       "ListBox",
		"SysTreeView32": "TreeView",
		"SysListView32": "List View",
		"SysHeader32":   "Header",
		"Static":        "Static",
	}
	a, ok := alias[class]
	if !ok {
		a = class
	}
	return text + a
}

// findControl resolves a field identifier on a form. Controls are
// enumerated in z-order; labels (Static controls) carry the text that names
// the Edit/ComboBox that follows them.
func (s *Win32Surface) findControl(form, field string) (windows.HWND, error) {
	parent, ok := findTopWindow(form)
	if !ok {
		return 0, fmt.Errorf("window %q not found", form)
	}
	var found windows.HWND
	lastLabel := ""
	cb := windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		class := className(hwnd)
		text := windowText(hwnd)
		if class == "Static" {
			lastLabel = text
			return 1
		}
		name := friendlyName(text, class)
		labeled := friendlyName(lastLabel, class)
		if name == field || labeled == field || strings.HasPrefix(name, field) || strings.HasPrefix(labeled, field) {
			found = hwnd
			return 0
		}
		return 1
	})
	procEnumChildWindows.Call(uintptr(parent), cb, 0)
	if found == 0 {
		return 0, fmt.Errorf("control %q not found on %q", field, form)
	}
	return found, nil
}

// SelectTreeNode implements Surface.
func (s *Win32Surface) SelectTreeNode(node TreeNode) error {
	n, ok := node.(*win32TreeNode)
	if !ok {
		return fmt.Errorf("foreign tree node %T", node)
	}
	sendMessage(n.tree, tvmSelectItem, tvgnCaret, n.item)
	return nil
}

// TreeRoot returns the root item of the main window's tree control.
func (s *Win32Surface) TreeRoot() (TreeNode, error) {
	tree, err := s.findControl(s.mainTitlePrefix, "TreeView")
	if err != nil {
		return nil, err
	}
	item := sendMessage(tree, tvmGetNextItem, tvgnRoot, 0)
	if item == 0 {
		return nil, fmt.Errorf("tree has no root item")
	}
	label, err := s.treeItemText(tree, item)
	if err != nil {
		return nil, err
	}
	return &win32TreeNode{surface: s, tree: tree, item: item, label: label}, nil
}

// Children implements Surface. Child items are fetched even when the
// cChildren flag is unset because the authoring tool does not maintain it
// reliably.
func (s *Win32Surface) Children(node TreeNode) ([]TreeNode, error) {
	n, ok := node.(*win32TreeNode)
	if !ok {
		return nil, fmt.Errorf("foreign tree node %T", node)
	}
	var out []TreeNode
	child := sendMessage(n.tree, tvmGetNextItem, tvgnChild, n.item)
	for child != 0 {
		label, err := s.treeItemText(n.tree, child)
		if err != nil {
			return nil, err
		}
		out = append(out, &win32TreeNode{surface: s, tree: n.tree, item: child, label: label})
		child = sendMessage(n.tree, tvmGetNextItem, tvgnNext, child)
	}
	return out, nil
}

// remoteBuf is memory allocated inside the process owning a control.
// Common controls resolve message struct pointers in their own address
// space, so the structs must live there.
type remoteBuf struct {
	proc windows.Handle
	addr uintptr
}

func newRemoteBuf(hwnd windows.HWND, size uintptr) (*remoteBuf, error) {
	var pid uint32
	procGetWindowThreadPID.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	proc, err := windows.OpenProcess(
		windows.PROCESS_VM_OPERATION|windows.PROCESS_VM_READ|windows.PROCESS_VM_WRITE,
		false, pid)
	if err != nil {
		return nil, fmt.Errorf("open target process: %w", err)
	}
	addr, err := windows.VirtualAllocEx(proc, 0, size,
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		_ = windows.CloseHandle(proc)
		return nil, fmt.Errorf("alloc in target process: %w", err)
	}
	return &remoteBuf{proc: proc, addr: addr}, nil
}

func (b *remoteBuf) close() {
	_ = windows.VirtualFreeEx(b.proc, b.addr, 0, windows.MEM_RELEASE)
	_ = windows.CloseHandle(b.proc)
}

func (b *remoteBuf) write(off uintptr, data []byte) error {
	var n uintptr
	return windows.WriteProcessMemory(b.proc, b.addr+off, &data[0], uintptr(len(data)), &n)
}

func (b *remoteBuf) read(off uintptr, data []byte) error {
	var n uintptr
	return windows.ReadProcessMemory(b.proc, b.addr+off, &data[0], uintptr(len(data)), &n)
}

// tvItemW matches the win32 TVITEMW layout for 64-bit processes.
type tvItemW struct {
	Mask           uint32
	HItem          uintptr
	State          uint32
	StateMask      uint32
	PszText        uintptr
	CchTextMax     int32
	IImage         int32
	ISelectedImage int32
	CChildren      int32
	LParam         uintptr
}

// treeItemText reads an item label through a buffer in the target process.
func (s *Win32Surface) treeItemText(tree windows.HWND, item uintptr) (string, error) {
	const textMax = 512
	buf, err := newRemoteBuf(tree, unsafe.Sizeof(tvItemW{})+textMax*2)
	if err != nil {
		return "", err
	}
	defer buf.close()

	it := tvItemW{
		Mask:       tvifText | tvifHandle | tvifChildren,
		HItem:      item,
		PszText:    buf.addr + unsafe.Sizeof(tvItemW{}),
		CchTextMax: textMax,
	}
	itBytes := unsafe.Slice((*byte)(unsafe.Pointer(&it)), unsafe.Sizeof(it))
	if err := buf.write(0, itBytes); err != nil {
		return "", fmt.Errorf("write item struct: %w", err)
	}
	if sendMessage(tree, tvmGetItemW, 0, buf.addr) == 0 {
		return "", fmt.Errorf("TVM_GETITEMW failed")
	}
	text := make([]uint16, textMax)
	textBytes := unsafe.Slice((*byte)(unsafe.Pointer(&text[0])), textMax*2)
	if err := buf.read(unsafe.Sizeof(tvItemW{}), textBytes); err != nil {
		return "", fmt.Errorf("read item text: %w", err)
	}
	return windows.UTF16ToString(text), nil
}

// SendKeys implements Surface for the small key vocabulary the engine uses.
func (s *Win32Surface) SendKeys(seq string) error {
	codes := map[string]byte{
		KeyEnter:  vkReturn,
		KeyEscape: vkEscape,
		KeyDown:   vkDown,
		KeyUp:     vkUp,
	}
	rest := seq
	for rest != "" {
		matched := false
		for tok, vk := range codes {
			if strings.HasPrefix(rest, tok) {
				procKeybdEvent.Call(uintptr(vk), 0, 0, 0)
				procKeybdEvent.Call(uintptr(vk), 0, keyEventKeyUp, 0)
				rest = rest[len(tok):]
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("unsupported key sequence %q", seq)
		}
	}
	return nil
}

// ReadText implements Surface.
func (s *Win32Surface) ReadText(form, field string) (string, error) {
	hwnd, err := s.findControl(form, field)
	if err != nil {
		return "", err
	}
	n := sendMessage(hwnd, wmGetTextLength, 0, 0)
	buf := make([]uint16, n+1)
	sendMessage(hwnd, wmGetText, n+1, uintptr(unsafe.Pointer(&buf[0])))
	return windows.UTF16ToString(buf), nil
}

// ReadCheck implements Surface.
func (s *Win32Surface) ReadCheck(form, field string) (CheckState, error) {
	hwnd, err := s.findControl(form, field)
	if err != nil {
		return Unchecked, err
	}
	switch sendMessage(hwnd, bmGetCheck, 0, 0) {
	case 1:
		return Checked, nil
	case 2:
		return Indeterminate, nil
	default:
		return Unchecked, nil
	}
}

// Click implements Surface.
func (s *Win32Surface) Click(form, field string) error {
	hwnd, err := s.findControl(form, field)
	if err != nil {
		return err
	}
	sendMessage(hwnd, bmClick, 0, 0)
	return nil
}

// ListItems implements Surface. List boxes answer LB_* messages and are
// read item by item. List views ignore those, so they go through LVM_*
// with a cross-process buffer and report their flattened row*column cell
// texts, like the automation layer the original tooling used.
func (s *Win32Surface) ListItems(form, field string) ([]string, error) {
	hwnd, err := s.findControl(form, field)
	if err != nil {
		return nil, err
	}
	if className(hwnd) == "SysListView32" {
		return s.listViewTexts(form, field, hwnd)
	}
	count := int(int32(sendMessage(hwnd, lbGetCount, 0, 0)))
	if count < 0 {
		return nil, fmt.Errorf("control %q on %q rejects LB_GETCOUNT", field, form)
	}
	items := make([]string, 0, count)
	for i := 0; i < count; i++ {
		n := sendMessage(hwnd, lbGetTextLen, uintptr(i), 0)
		buf := make([]uint16, n+1)
		sendMessage(hwnd, lbGetText, uintptr(i), uintptr(unsafe.Pointer(&buf[0])))
		items = append(items, windows.UTF16ToString(buf))
	}
	return items, nil
}

// lvItemW matches the win32 LVITEMW layout for 64-bit processes.
type lvItemW struct {
	Mask       uint32
	IItem      int32
	ISubItem   int32
	State      uint32
	StateMask  uint32
	PszText    uintptr
	CchTextMax int32
	IImage     int32
	LParam     uintptr
	IIndent    int32
	IGroupID   int32
	CColumns   uint32
	PuColumns  uintptr
	PiColFmt   uintptr
	IGroup     int32
}

func (s *Win32Surface) listViewTexts(form, field string, hwnd windows.HWND) ([]string, error) {
	rows := int(int32(sendMessage(hwnd, lvmGetItemCount, 0, 0)))
	if rows <= 0 {
		return nil, nil
	}
	columns, err := s.ListColumns(form, field)
	if err != nil {
		return nil, err
	}

	const textMax = 512
	buf, err := newRemoteBuf(hwnd, unsafe.Sizeof(lvItemW{})+textMax*2)
	if err != nil {
		return nil, err
	}
	defer buf.close()

	texts := make([]string, 0, rows*columns)
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			it := lvItemW{
				ISubItem:   int32(col),
				PszText:    buf.addr + unsafe.Sizeof(lvItemW{}),
				CchTextMax: textMax,
			}
			itBytes := unsafe.Slice((*byte)(unsafe.Pointer(&it)), unsafe.Sizeof(it))
			if err := buf.write(0, itBytes); err != nil {
				return nil, fmt.Errorf("write item struct: %w", err)
			}
			sendMessage(hwnd, lvmGetItemTextW, uintptr(row), buf.addr)
			cell := make([]uint16, textMax)
			cellBytes := unsafe.Slice((*byte)(unsafe.Pointer(&cell[0])), textMax*2)
			if err := buf.read(unsafe.Sizeof(lvItemW{}), cellBytes); err != nil {
				return nil, fmt.Errorf("read cell text: %w", err)
			}
			texts = append(texts, windows.UTF16ToString(cell))
		}
	}
	return texts, nil
}

// SelectListItem implements Surface. List views take their selection
// through an LVITEMW state change in the target process.
func (s *Win32Surface) SelectListItem(form, field string, i int) error {
	hwnd, err := s.findControl(form, field)
	if err != nil {
		return err
	}
	if className(hwnd) != "SysListView32" {
		sendMessage(hwnd, lbSetCurSel, uintptr(i), 0)
		return nil
	}
	buf, err := newRemoteBuf(hwnd, unsafe.Sizeof(lvItemW{}))
	if err != nil {
		return err
	}
	defer buf.close()
	it := lvItemW{
		State:     lvisSelected | lvisFocused,
		StateMask: lvisSelected | lvisFocused,
	}
	itBytes := unsafe.Slice((*byte)(unsafe.Pointer(&it)), unsafe.Sizeof(it))
	if err := buf.write(0, itBytes); err != nil {
		return fmt.Errorf("write item struct: %w", err)
	}
	sendMessage(hwnd, lvmSetItemState, uintptr(i), buf.addr)
	return nil
}

// ListColumns implements Surface.
func (s *Win32Surface) ListColumns(form, field string) (int, error) {
	hwnd, err := s.findControl(form, "Header")
	if err != nil {
		return 0, err
	}
	_ = field
	n := int(sendMessage(hwnd, hdmGetItemCount, 0, 0))
	if n <= 0 {
		n = 1
	}
	return n, nil
}

// WaitForWindow implements Surface.
func (s *Win32Surface) WaitForWindow(ctx context.Context, titles []string) (string, error) {
	for {
		for _, t := range titles {
			if s.WindowExists(t) {
				return t, nil
			}
		}
		select {
		case <-ctx.Done():
			return "", ErrCancelled
		case <-time.After(s.pollInterval):
		}
	}
}

// WindowExists implements Surface.
func (s *Win32Surface) WindowExists(title string) bool {
	_, ok := findTopWindow(title)
	return ok
}

// ControlExists implements Surface.
func (s *Win32Surface) ControlExists(form, field string) bool {
	_, err := s.findControl(form, field)
	return err == nil
}

// ControlEnabled implements Surface.
func (s *Win32Surface) ControlEnabled(form, field string) bool {
	hwnd, err := s.findControl(form, field)
	if err != nil {
		return false
	}
	r, _, _ := procIsWindowEnabled.Call(uintptr(hwnd))
	return r != 0
}

// SelectedTreeText implements Surface.
func (s *Win32Surface) SelectedTreeText(form, field string) (string, error) {
	tree, err := s.findControl(form, field)
	if err != nil {
		return "", err
	}
	item := sendMessage(tree, tvmGetNextItem, tvgnCaret, 0)
	if item == 0 {
		return "", fmt.Errorf("no selected item in tree on %q", form)
	}
	return s.treeItemText(tree, item)
}

// VisibleFields implements Surface.
func (s *Win32Surface) VisibleFields(form string) ([]string, error) {
	parent, ok := findTopWindow(form)
	if !ok {
		return nil, fmt.Errorf("window %q not found", form)
	}
	var fields []string
	cb := windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		fields = append(fields, friendlyName(windowText(hwnd), className(hwnd)))
		return 1
	})
	procEnumChildWindows.Call(uintptr(parent), cb, 0)
	return fields, nil
}

// SelectMenu walks the main window's menu bar by item captions ("View",
// "Screen View", ...) and posts the final item's command. Captions match
// with accelerator ampersands stripped.
func (s *Win32Surface) SelectMenu(captions ...string) error {
	hwnd, ok := findTopWindow(s.mainTitlePrefix)
	if !ok {
		return fmt.Errorf("window %q not found", s.mainTitlePrefix)
	}
	menu, _, _ := procGetMenu.Call(uintptr(hwnd))
	if menu == 0 {
		return fmt.Errorf("window %q has no menu", s.mainTitlePrefix)
	}
	for depth, caption := range captions {
		count, _, _ := procGetMenuItemCount.Call(menu)
		found := -1
		for i := 0; i < int(count); i++ {
			buf := make([]uint16, 128)
			procGetMenuStringW.Call(menu, uintptr(i),
				uintptr(unsafe.Pointer(&buf[0])), 128, mfByPosition)
			label := strings.ReplaceAll(windows.UTF16ToString(buf), "&", "")
			if label == caption {
				found = i
				break
			}
		}
		if found < 0 {
			return fmt.Errorf("menu item %q not found", caption)
		}
		if depth == len(captions)-1 {
			id, _, _ := procGetMenuItemID.Call(menu, uintptr(found))
			procPostMessageW.Call(uintptr(hwnd), wmCommand, id, 0)
			return nil
		}
		menu, _, _ = procGetSubMenu.Call(menu, uintptr(found))
		if menu == 0 {
			return fmt.Errorf("menu item %q has no submenu", caption)
		}
	}
	return nil
}

// DismissDialog clicks a button by field name on whichever top-level
// window of the tool currently shows it, e.g. the database prompt shown at
// startup.
func (s *Win32Surface) DismissDialog(button string) error {
	var clicked bool
	cb := windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		vis, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
		if vis == 0 {
			return 1
		}
		title := windowText(hwnd)
		if title == "" {
			return 1
		}
		if err := s.Click(title, button); err == nil {
			clicked = true
			return 0
		}
		return 1
	})
	procEnumWindows.Call(cb, 0)
	if !clicked {
		return fmt.Errorf("no window with a %q button", button)
	}
	return nil
}

// Focus brings the main window to the foreground.
func (s *Win32Surface) Focus() error {
	hwnd, ok := findTopWindow(s.mainTitlePrefix)
	if !ok {
		return fmt.Errorf("window %q not found", s.mainTitlePrefix)
	}
	procSetForegroundWindow.Call(uintptr(hwnd))
	return nil
}

// Close implements Surface. A bound tool instance is terminated so a
// restarted run starts from a single live instance.
func (s *Win32Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.tool == nil {
		return nil
	}
	if err := s.tool.Kill(); err != nil {
		return fmt.Errorf("terminate authoring tool: %w", err)
	}
	return s.tool.Release()
}

var _ Surface = (*Win32Surface)(nil)
