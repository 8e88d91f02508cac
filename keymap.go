package main

import evdev "github.com/holoplot/go-evdev"

// maxKeys is one past the highest key code that has a label.
const maxKeys = 127

// UnknownKey is the label used for codes outside the table and for
// codes the kernel leaves unassigned.
const UnknownKey = "Unknown"

// keyNames maps evdev key codes to the labels written to the log. Codes
// without an entry are reserved and resolve to UnknownKey.
var keyNames = [maxKeys]string{
	evdev.KEY_ESC: "ESC",

	evdev.KEY_1:         "1",
	evdev.KEY_2:         "2",
	evdev.KEY_3:         "3",
	evdev.KEY_4:         "4",
	evdev.KEY_5:         "5",
	evdev.KEY_6:         "6",
	evdev.KEY_7:         "7",
	evdev.KEY_8:         "8",
	evdev.KEY_9:         "9",
	evdev.KEY_0:         "0",
	evdev.KEY_MINUS:     "-",
	evdev.KEY_EQUAL:     "=",
	evdev.KEY_BACKSPACE: "Backspace",
	evdev.KEY_TAB:       "Tab",

	evdev.KEY_Q:          "Q",
	evdev.KEY_W:          "W",
	evdev.KEY_E:          "E",
	evdev.KEY_R:          "R",
	evdev.KEY_T:          "T",
	evdev.KEY_Y:          "Y",
	evdev.KEY_U:          "U",
	evdev.KEY_I:          "I",
	evdev.KEY_O:          "O",
	evdev.KEY_P:          "P",
	evdev.KEY_LEFTBRACE:  "[",
	evdev.KEY_RIGHTBRACE: "]",
	evdev.KEY_ENTER:      "Enter",
	evdev.KEY_LEFTCTRL:   "LCtrl",

	evdev.KEY_A:          "A",
	evdev.KEY_S:          "S",
	evdev.KEY_D:          "D",
	evdev.KEY_F:          "F",
	evdev.KEY_G:          "G",
	evdev.KEY_H:          "H",
	evdev.KEY_J:          "J",
	evdev.KEY_K:          "K",
	evdev.KEY_L:          "L",
	evdev.KEY_SEMICOLON:  ";",
	evdev.KEY_APOSTROPHE: "'",
	evdev.KEY_GRAVE:      "`",
	evdev.KEY_LEFTSHIFT:  "LShift",
	evdev.KEY_BACKSLASH:  "\\",

	evdev.KEY_Z:          "Z",
	evdev.KEY_X:          "X",
	evdev.KEY_C:          "C",
	evdev.KEY_V:          "V",
	evdev.KEY_B:          "B",
	evdev.KEY_N:          "N",
	evdev.KEY_M:          "M",
	evdev.KEY_COMMA:      ",",
	evdev.KEY_DOT:        ".",
	evdev.KEY_SLASH:      "/",
	evdev.KEY_RIGHTSHIFT: "RShift",
	evdev.KEY_KPASTERISK: "KP*",
	evdev.KEY_LEFTALT:    "LAlt",
	evdev.KEY_SPACE:      "Space",
	evdev.KEY_CAPSLOCK:   "CapsLock",

	evdev.KEY_F1:         "F1",
	evdev.KEY_F2:         "F2",
	evdev.KEY_F3:         "F3",
	evdev.KEY_F4:         "F4",
	evdev.KEY_F5:         "F5",
	evdev.KEY_F6:         "F6",
	evdev.KEY_F7:         "F7",
	evdev.KEY_F8:         "F8",
	evdev.KEY_F9:         "F9",
	evdev.KEY_F10:        "F10",
	evdev.KEY_NUMLOCK:    "NumLock",
	evdev.KEY_SCROLLLOCK: "ScrollLock",

	evdev.KEY_KP7:     "KP7",
	evdev.KEY_KP8:     "KP8",
	evdev.KEY_KP9:     "KP9",
	evdev.KEY_KPMINUS: "KP-",
	evdev.KEY_KP4:     "KP4",
	evdev.KEY_KP5:     "KP5",
	evdev.KEY_KP6:     "KP6",
	evdev.KEY_KPPLUS:  "KP+",
	evdev.KEY_KP1:     "KP1",
	evdev.KEY_KP2:     "KP2",
	evdev.KEY_KP3:     "KP3",
	evdev.KEY_KP0:     "KP0",
	evdev.KEY_KPDOT:   "KP.",

	// 84 and 85 are reserved.
	evdev.KEY_102ND: "\\",
	evdev.KEY_F11:   "F11",
	evdev.KEY_F12:   "F12",

	// 89 to 95 are language keys without a label.
	evdev.KEY_KPENTER:   "KPEnter",
	evdev.KEY_RIGHTCTRL: "RCtrl",
	evdev.KEY_KPSLASH:   "KP/",
	evdev.KEY_SYSRQ:     "SysRq",
	evdev.KEY_RIGHTALT:  "RAlt",

	// 101 is reserved.
	evdev.KEY_HOME:     "Home",
	evdev.KEY_UP:       "Up",
	evdev.KEY_PAGEUP:   "PageUp",
	evdev.KEY_LEFT:     "Left",
	evdev.KEY_RIGHT:    "Right",
	evdev.KEY_END:      "End",
	evdev.KEY_DOWN:     "Down",
	evdev.KEY_PAGEDOWN: "PageDown",
	evdev.KEY_INSERT:   "Insert",
	evdev.KEY_DELETE:   "Delete",

	// 112 to 124 are media and keypad extras without a label.
	evdev.KEY_LEFTMETA:  "LMod4",
	evdev.KEY_RIGHTMETA: "RMod4",
}

// KeyName returns the log label for code, or UnknownKey when the code is
// out of range or unassigned.
func KeyName(code evdev.EvCode) string {
	if code < maxKeys {
		if name := keyNames[code]; name != "" {
			return name
		}
	}
	dbg("unknown key code %d (%s)", code, evdev.CodeName(evdev.EV_KEY, code))
	return UnknownKey
}

// KeyCode is the reverse of KeyName. Labels are matched exactly; when a
// label is shared the lowest code is returned.
func KeyCode(label string) (evdev.EvCode, bool) {
	if label == "" {
		return 0, false
	}
	for code, name := range keyNames {
		if name == label {
			return evdev.EvCode(code), true
		}
	}
	return 0, false
}
