package gdbstub

import "strconv"

// CapabilitySet is the immutable descriptor, sampled once when a
// session begins, of which optional extensions the target implements
// (component D). It governs both the outgoing qSupported string and
// every parse/dispatch decision made for the lifetime of the session,
// per spec.md §3.
type CapabilitySet struct {
	PacketSize int

	Resume             ResumeExt
	RangeStep          RangeStepExt
	ReverseExec        ReverseExecExt
	Breakpoint         BreakpointExt
	Watchpoint         WatchpointExt
	ExtendedMode       ExtendedModeExt
	HostIO             HostIOExt
	Description        DescriptionExt
	MemoryMap          MemoryMapExt
	Auxv               AuxvExt
	ExecFile           ExecFileExt
	Libraries          LibrariesExt
	Monitor            MonitorExt
	CatchSyscalls      CatchSyscallsExt
	RegisterInfo       RegisterInfoExt
	ThreadExtraInfo    ThreadExtraInfoExt
	SectionOffsets     SectionOffsetsExt
	Multiprocess       bool
}

// SampleCapabilities queries target once for each optional extension
// group via type assertion, per spec.md §4.D. packetSize is the
// PacketSize this session will advertise and enforce.
func SampleCapabilities(target Base, packetSize int) CapabilitySet {
	c := CapabilitySet{PacketSize: packetSize}
	if v, ok := target.(ResumeExt); ok {
		c.Resume = v
	}
	if v, ok := target.(RangeStepExt); ok {
		c.RangeStep = v
	}
	if v, ok := target.(ReverseExecExt); ok {
		c.ReverseExec = v
	}
	if v, ok := target.(BreakpointExt); ok {
		c.Breakpoint = v
	}
	if v, ok := target.(WatchpointExt); ok {
		c.Watchpoint = v
	}
	if v, ok := target.(ExtendedModeExt); ok {
		c.ExtendedMode = v
	}
	if v, ok := target.(HostIOExt); ok {
		c.HostIO = v
	}
	if v, ok := target.(DescriptionExt); ok {
		c.Description = v
	}
	if v, ok := target.(MemoryMapExt); ok {
		c.MemoryMap = v
	}
	if v, ok := target.(AuxvExt); ok {
		c.Auxv = v
	}
	if v, ok := target.(ExecFileExt); ok {
		c.ExecFile = v
	}
	if v, ok := target.(LibrariesExt); ok {
		c.Libraries = v
	}
	if v, ok := target.(MonitorExt); ok {
		c.Monitor = v
	}
	if v, ok := target.(CatchSyscallsExt); ok {
		c.CatchSyscalls = v
	}
	if v, ok := target.(RegisterInfoExt); ok {
		c.RegisterInfo = v
	}
	if v, ok := target.(ThreadExtraInfoExt); ok {
		c.ThreadExtraInfo = v
	}
	if v, ok := target.(SectionOffsetsExt); ok {
		c.SectionOffsets = v
	}
	// Multiprocess is always offered, whatever the target: thread ids are
	// (pid, tid) pairs internally. Whether it is used depends only on
	// what the client itself advertised in qSupported.
	c.Multiprocess = true
	return c
}

// QSupportedString builds the feature string this session advertises
// in response to qSupported, per spec.md §4.D. clientMultiprocess is
// whether the connecting client itself advertised multiprocess+.
func (c CapabilitySet) QSupportedString(clientMultiprocess bool) string {
	var feats []string
	feats = append(feats, "PacketSize="+strconv.FormatInt(int64(c.PacketSize), 16))
	feats = append(feats, "QStartNoAckMode+")
	if c.Breakpoint != nil {
		feats = append(feats, "swbreak+", "hwbreak+")
	}
	if c.Resume != nil {
		feats = append(feats, "vContSupported+")
	}
	if c.Multiprocess && clientMultiprocess {
		feats = append(feats, "multiprocess+")
	}
	if c.Description != nil {
		feats = append(feats, "qXfer:features:read+")
	}
	if c.MemoryMap != nil {
		feats = append(feats, "qXfer:memory-map:read+")
	}
	if c.Auxv != nil {
		feats = append(feats, "qXfer:auxv:read+")
	}
	if c.ExecFile != nil {
		feats = append(feats, "qXfer:exec-file:read+")
	}
	if c.Libraries != nil {
		feats = append(feats, "qXfer:libraries-svr4:read+")
	}
	if c.HostIO != nil {
		feats = append(feats, "vFile:open+")
	}
	if c.ExtendedMode != nil {
		feats = append(feats, "QEnvironmentHexEncoded+", "QStartupWithShell+", "QDisableRandomization+", "QSetWorkingDir+")
	}
	if c.ReverseExec != nil {
		feats = append(feats, "ReverseContinue+", "ReverseStep+")
	}
	if c.CatchSyscalls != nil {
		feats = append(feats, "QCatchSyscalls+")
	}
	out := feats[0]
	for _, f := range feats[1:] {
		out += ";" + f
	}
	return out
}

// VContActions returns the `vCont?` reply body listing which resume
// actions are supported, per spec.md §4.E.
func (c CapabilitySet) VContActions() string {
	if c.Resume == nil {
		return ""
	}
	actions := "vCont;c;C;s;S"
	if c.RangeStep != nil {
		actions += ";r"
	}
	return actions
}
