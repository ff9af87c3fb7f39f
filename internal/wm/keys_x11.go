// +build linux,!android freebsd openbsd

package wm

import "github.com/ruisapp-go/ruisapp/event"

// x11KeyTable and wlKeyTable share the same evdev-derived keycode
// layout, keycode = evdev_code + 8, a historical accommodation of the X
// protocol's reserved 0-7 range. X11 reports keycodes in this form
// directly; Wayland reports the raw evdev code, and the Wayland backend
// adds 8 before lookup. Entries absent below default to event.Unknown.
var x11KeyTable = buildEvdevKeyTable()
var wlKeyTable = x11KeyTable

func buildEvdevKeyTable() KeyTable {
	var t KeyTable
	set := func(code int, k event.Key) { t[code] = k }
	set(9, "escape")
	set(10, "1")
	set(11, "2")
	set(12, "3")
	set(13, "4")
	set(14, "5")
	set(15, "6")
	set(16, "7")
	set(17, "8")
	set(18, "9")
	set(19, "0")
	set(20, "minus")
	set(21, "equals")
	set(22, "backspace")
	set(23, "tab")
	set(24, "q")
	set(25, "w")
	set(26, "e")
	set(27, "r")
	set(28, "t")
	set(29, "y")
	set(30, "u")
	set(31, "i")
	set(32, "o")
	set(33, "p")
	set(34, "left_bracket")
	set(35, "right_bracket")
	set(36, "enter")
	set(37, "left_control")
	set(38, "a")
	set(39, "s")
	set(40, "d")
	set(41, "f")
	set(42, "g")
	set(43, "h")
	set(44, "j")
	set(45, "k")
	set(46, "l")
	set(47, "semicolon")
	set(48, "apostrophe")
	set(49, "grave")
	set(50, "left_shift")
	set(51, "backslash")
	set(52, "z")
	set(53, "x")
	set(54, "c")
	set(55, "v")
	set(56, "b")
	set(57, "n")
	set(58, "m")
	set(59, "comma")
	set(60, "period")
	set(61, "slash")
	set(62, "right_shift")
	set(64, "left_alt")
	set(65, "space")
	set(66, "capslock")
	set(67, "f1")
	set(68, "f2")
	set(69, "f3")
	set(70, "f4")
	set(71, "f5")
	set(72, "f6")
	set(73, "f7")
	set(74, "f8")
	set(75, "f9")
	set(76, "f10")
	set(95, "f11")
	set(96, "f12")
	set(111, "up")
	set(113, "left")
	set(114, "right")
	set(116, "down")
	set(118, "insert")
	set(119, "delete")
	set(110, "home")
	set(115, "end")
	set(112, "page_up")
	set(117, "page_down")
	set(105, "right_control")
	set(108, "right_alt")
	return t
}
