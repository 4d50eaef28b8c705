// Package keypad tracks the state of the 16 hexadecimal keys.
package keypad

import "github.com/kapitanov/chip8emu/internal/vm"

type Keypad struct {
	keys [vm.KeyCount]bool
}

func New() *Keypad {
	return &Keypad{}
}

// Press marks key as held. Keys outside 0-F are ignored.
func (k *Keypad) Press(key vm.Key) {
	if int(key) < vm.KeyCount {
		k.keys[key] = true
	}
}

func (k *Keypad) Release(key vm.Key) {
	if int(key) < vm.KeyCount {
		k.keys[key] = false
	}
}

// IsPressed reports whether key is held; keys outside 0-F never are.
func (k *Keypad) IsPressed(key vm.Key) bool {
	return int(key) < vm.KeyCount && k.keys[key]
}

// FirstPressed returns the lowest held key.
func (k *Keypad) FirstPressed() (vm.Key, bool) {
	for i, down := range k.keys {
		if down {
			return vm.Key(i), true
		}
	}
	return 0, false
}

func (k *Keypad) Reset() {
	k.keys = [vm.KeyCount]bool{}
}
