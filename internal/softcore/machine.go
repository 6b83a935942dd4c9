// Package softcore is a pure-Go stand-in for the teacher's cgo-backed
// machine_t: a minimal ARM Cortex-M-shaped register file (r0-r12, sp,
// lr, pc, xPSR) plus a flat RAM region, enough to drive a gdbstub
// session end to end without a real emulator core behind it. It
// implements gdbstub.Base plus the breakpoint/watchpoint/resume
// extensions.
package softcore

import (
	"encoding/binary"
	"sync"

	"github.com/aykevl/gdbstub"
)

const numRegs = 17 // r0-r12, sp, lr, pc, xPSR

// Machine is a single-threaded, single-address-space soft core.
type Machine struct {
	mu sync.Mutex

	regs [numRegs]uint32
	mem  []byte

	halted bool

	swBreakpoints map[uint64]uint64 // addr -> kind
	hwBreakpoints map[uint64]uint64
	watchpoints   map[watchKey]struct{}

	tid gdbstub.ThreadID
}

type watchKey struct {
	addr, length uint64
	kind         gdbstub.WatchKind
}

// New creates a machine with memSize bytes of RAM starting at address
// 0, halted and ready for a GDB connection.
func New(memSize int) *Machine {
	return &Machine{
		mem:           make([]byte, memSize),
		halted:        true,
		swBreakpoints: make(map[uint64]uint64),
		hwBreakpoints: make(map[uint64]uint64),
		watchpoints:   make(map[watchKey]struct{}),
		tid:           gdbstub.ThreadID{Pid: 1, Tid: 1},
	}
}

// LoadAt copies data into RAM starting at addr.
func (m *Machine) LoadAt(addr uint64, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.mem[addr:], data)
}

// --- gdbstub.Base ---

func (m *Machine) PointerWidth() int { return 4 }
func (m *Machine) BigEndian() bool   { return false }

func (m *Machine) Threads() []gdbstub.ThreadID {
	return []gdbstub.ThreadID{m.tid}
}

func (m *Machine) ReadRegisters(tid gdbstub.ThreadID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, numRegs*4)
	for i, r := range m.regs {
		binary.LittleEndian.PutUint32(buf[i*4:], r)
	}
	return buf, nil
}

func (m *Machine) WriteRegisters(tid gdbstub.ThreadID, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(data) != numRegs*4 {
		return gdbstub.ErrMalformedPacket
	}
	for i := range m.regs {
		m.regs[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return nil
}

func (m *Machine) ReadMemory(addr uint64, dst []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if addr >= uint64(len(m.mem)) {
		return 0, gdbstub.ErrMalformedPacket
	}
	n := copy(dst, m.mem[addr:])
	return n, nil
}

func (m *Machine) WriteMemory(addr uint64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if addr+uint64(len(data)) > uint64(len(m.mem)) {
		return gdbstub.ErrMalformedPacket
	}
	copy(m.mem[addr:], data)
	return nil
}

func (m *Machine) HaltReason(tid gdbstub.ThreadID) (gdbstub.StopReason, error) {
	return gdbstub.StopReason{Kind: gdbstub.StopSignal, Tid: m.tid, Signal: gdbstub.SIGTRAP}, nil
}

// --- gdbstub.ResumeExt ---

const pcReg = 15

func (m *Machine) Continue(tid gdbstub.ThreadID, sig *gdbstub.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.halted = false
	// Advance until a breakpoint address is hit or memory runs out; this
	// is a stand-in scheduler, not an instruction interpreter.
	for {
		pc := uint64(m.regs[pcReg])
		if _, hit := m.swBreakpoints[pc]; hit {
			break
		}
		if _, hit := m.hwBreakpoints[pc]; hit {
			break
		}
		if pc+4 >= uint64(len(m.mem)) {
			break
		}
		m.regs[pcReg] += 4
	}
	m.halted = true
	return nil
}

func (m *Machine) Step(tid gdbstub.ThreadID, sig *gdbstub.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if uint64(m.regs[pcReg])+4 < uint64(len(m.mem)) {
		m.regs[pcReg] += 4
	}
	return nil
}

// --- gdbstub.BreakpointExt ---

func (m *Machine) AddSWBreakpoint(addr, kind uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swBreakpoints[addr] = kind
	return nil
}

func (m *Machine) RemoveSWBreakpoint(addr, kind uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.swBreakpoints, addr)
	return nil
}

func (m *Machine) AddHWBreakpoint(addr, kind uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hwBreakpoints[addr] = kind
	return nil
}

func (m *Machine) RemoveHWBreakpoint(addr, kind uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hwBreakpoints, addr)
	return nil
}

// --- gdbstub.WatchpointExt ---

func (m *Machine) AddWatchpoint(addr, length uint64, kind gdbstub.WatchKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchpoints[watchKey{addr, length, kind}] = struct{}{}
	return nil
}

func (m *Machine) RemoveWatchpoint(addr, length uint64, kind gdbstub.WatchKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watchpoints, watchKey{addr, length, kind})
	return nil
}

// --- gdbstub.MemoryMapExt / DescriptionExt, grounded on the teacher's
// gdbAnnexTarget/gdbAnnexMemoryMap XML templates in gdb-rsp.go ---

func (m *Machine) TargetDescriptionXML() string {
	return `<?xml version="1.0"?>
<!DOCTYPE target SYSTEM "gdb-target.dtd">
<target version="1.0">
<feature name="org.gnu.gdb.arm.m-profile">
<reg name="r0" bitsize="32" regnum="0" save-restore="yes" type="int" group="general"/>
<reg name="r1" bitsize="32" regnum="1" save-restore="yes" type="int" group="general"/>
<reg name="r2" bitsize="32" regnum="2" save-restore="yes" type="int" group="general"/>
<reg name="r3" bitsize="32" regnum="3" save-restore="yes" type="int" group="general"/>
<reg name="r4" bitsize="32" regnum="4" save-restore="yes" type="int" group="general"/>
<reg name="r5" bitsize="32" regnum="5" save-restore="yes" type="int" group="general"/>
<reg name="r6" bitsize="32" regnum="6" save-restore="yes" type="int" group="general"/>
<reg name="r7" bitsize="32" regnum="7" save-restore="yes" type="int" group="general"/>
<reg name="r8" bitsize="32" regnum="8" save-restore="yes" type="int" group="general"/>
<reg name="r9" bitsize="32" regnum="9" save-restore="yes" type="int" group="general"/>
<reg name="r10" bitsize="32" regnum="10" save-restore="yes" type="int" group="general"/>
<reg name="r11" bitsize="32" regnum="11" save-restore="yes" type="int" group="general"/>
<reg name="r12" bitsize="32" regnum="12" save-restore="yes" type="int" group="general"/>
<reg name="sp" bitsize="32" regnum="13" save-restore="yes" type="data_ptr" group="general"/>
<reg name="lr" bitsize="32" regnum="14" save-restore="yes" type="int" group="general"/>
<reg name="pc" bitsize="32" regnum="15" save-restore="yes" type="code_ptr" group="general"/>
<reg name="xPSR" bitsize="32" regnum="16" save-restore="yes" type="int" group="general"/>
</feature>
</target>
`
}

func (m *Machine) MemoryMapXML() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return `<memory-map>
<memory type="ram" start="0x0" length="0x` + hexLen(len(m.mem)) + `"/>
</memory-map>
`
}

func hexLen(n int) string {
	const digits = "0123456789abcdef"
	if n == 0 {
		return "0"
	}
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = digits[n&0xf]
		n >>= 4
	}
	return string(buf[i:])
}
