package gdbstub

import "strconv"

// ExecOutcome reports side effects of executing one command that the
// session state machine (component G) must act on.
type ExecOutcome struct {
	// Resumed is true when the command was resume-class (c/s/vCont/
	// reverse-*/range-step): the session must transition to Running and
	// wait for a stop event instead of reading the next packet.
	Resumed bool
	// EnterNoAckMode is true after a successful QStartNoAckMode.
	EnterNoAckMode bool
	// Disconnect, if non-nil, ends the session with this reason.
	Disconnect *DisconnectReason
}

// Executor translates parsed commands into Target facade calls and
// formats replies, per spec.md §4.E.
type Executor struct {
	Target       Base
	Caps         CapabilitySet
	Multiprocess bool // negotiated with the connected client
}

// Execute runs cmd, writing its reply into w, and returns the
// resulting ExecOutcome.
func (e *Executor) Execute(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	switch cmd.Kind {
	case CmdUnknown:
		return ExecOutcome{}, nil // empty reply: caller leaves w empty

	case CmdQSupported:
		for _, f := range cmd.ClientFeatures {
			if f == "multiprocess+" {
				e.Multiprocess = true
			}
		}
		return ExecOutcome{}, w.WriteString(e.Caps.QSupportedString(e.Multiprocess))

	case CmdStartNoAckMode:
		if err := w.WriteString("OK"); err != nil {
			return ExecOutcome{}, err
		}
		return ExecOutcome{EnterNoAckMode: true}, nil

	case CmdHaltReason:
		return e.execHaltReason(w)

	case CmdReadRegisters:
		return e.execReadRegisters(cmd, w)
	case CmdWriteRegisters:
		return e.execWriteRegisters(cmd, w)
	case CmdReadRegister:
		return e.execReadRegister(cmd, w)
	case CmdWriteRegister:
		return e.execWriteRegister(cmd, w)

	case CmdReadMemory:
		return e.execReadMemory(cmd, w)
	case CmdWriteMemory, CmdWriteMemoryBinary:
		return e.execWriteMemory(cmd, w)

	case CmdContinue, CmdStep:
		return e.execLegacyResume(cmd, w)
	case CmdVContQuery:
		return ExecOutcome{}, w.WriteString(e.Caps.VContActions())
	case CmdVCont:
		return e.execVCont(cmd, w)
	case CmdReverseContinue:
		return e.execReverse(cmd, w, true)
	case CmdReverseStep:
		return e.execReverse(cmd, w, false)

	case CmdAddBreakpoint:
		return ExecOutcome{}, e.execSetBreakpoint(cmd, w)
	case CmdRemoveBreakpoint:
		return ExecOutcome{}, e.execRemoveBreakpoint(cmd, w)

	case CmdSetThread:
		return ExecOutcome{}, w.WriteString("OK")
	case CmdIsThreadAlive:
		return ExecOutcome{}, e.execIsThreadAlive(cmd, w)
	case CmdQC:
		return ExecOutcome{}, e.execQC(w)
	case CmdQfThreadInfo:
		return ExecOutcome{}, e.execQfThreadInfo(w)
	case CmdQsThreadInfo:
		return ExecOutcome{}, w.WriteString("l")
	case CmdQAttached:
		return ExecOutcome{}, w.WriteString("1")
	case CmdThreadExtraInfo:
		return ExecOutcome{}, e.execThreadExtraInfo(cmd, w)

	case CmdDetach:
		if err := w.WriteString("OK"); err != nil {
			return ExecOutcome{}, err
		}
		return ExecOutcome{Disconnect: &DisconnectReason{Kind: DisconnectClient}}, nil
	case CmdKill:
		return ExecOutcome{Disconnect: &DisconnectReason{Kind: DisconnectKill}}, nil

	case CmdQXferFeaturesRead, CmdQXferMemoryMapRead, CmdQXferAuxvRead,
		CmdQXferExecFileRead, CmdQXferLibrariesRead, CmdQXferLibrariesSVR4Read:
		return ExecOutcome{}, e.execQXfer(cmd, w)

	case CmdVFileOpen, CmdVFileClose, CmdVFilePRead, CmdVFilePWrite,
		CmdVFileFStat, CmdVFileUnlink, CmdVFileReadlink, CmdVFileSetFS:
		return ExecOutcome{}, e.execHostIO(cmd, w)

	case CmdVRun:
		return e.execVRun(cmd, w)
	case CmdVAttach:
		return e.execVAttach(cmd, w)
	case CmdVKill:
		return e.execVKill(cmd, w)
	case CmdRestart:
		return ExecOutcome{}, e.execRestart(w)
	case CmdSetEnv, CmdUnsetEnv, CmdResetEnv, CmdSetWorkingDir,
		CmdStartupWithShell, CmdDisableRandomization:
		return ExecOutcome{}, e.execExtendedModeConfig(cmd, w)

	case CmdQRcmd:
		return ExecOutcome{}, e.execQRcmd(cmd, w)
	case CmdQOffsets:
		return ExecOutcome{}, e.execQOffsets(w)
	case CmdQRegisterInfo:
		return ExecOutcome{}, e.execQRegisterInfo(cmd, w)
	case CmdQHostInfo:
		return ExecOutcome{}, e.execQHostInfo(w)
	case CmdQProcessInfo:
		return ExecOutcome{}, e.execQProcessInfo(w)
	case CmdQSymbol:
		return ExecOutcome{}, w.WriteString("OK")
	case CmdQCatchSyscalls:
		return ExecOutcome{}, e.execQCatchSyscalls(cmd, w)
	case CmdVMustReplyEmpty:
		return ExecOutcome{}, nil
	}
	return ExecOutcome{}, nil
}

func writeErrno(w *ResponseWriter, errno Errno) error {
	return w.WriteString("E" + strconv.FormatUint(uint64(errno), 16))
}

func (e *Executor) execHaltReason(w *ResponseWriter) (ExecOutcome, error) {
	tid := e.firstThread()
	r, err := e.Target.HaltReason(tid)
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	return ExecOutcome{}, r.Format(w, e.Multiprocess)
}

func (e *Executor) firstThread() ThreadID {
	ts := e.Target.Threads()
	if len(ts) == 0 {
		return ThreadID{Pid: 1, Tid: 1}
	}
	return ts[0]
}

func (e *Executor) execReadRegisters(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	data, err := e.Target.ReadRegisters(e.firstThread())
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	return ExecOutcome{}, w.WriteHex(data)
}

func (e *Executor) execWriteRegisters(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	dst := make([]byte, len(cmd.Data)/2)
	n, err := DecodeHex(dst, cmd.Data)
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EINVAL)
	}
	full, err := e.Target.ReadRegisters(e.firstThread())
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	if n != len(full) {
		return ExecOutcome{}, writeErrno(w, EINVAL)
	}
	if err := e.Target.WriteRegisters(e.firstThread(), dst[:n]); err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	return ExecOutcome{}, w.WriteString("OK")
}

func (e *Executor) execReadRegister(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	data, err := e.Target.ReadRegisters(e.firstThread())
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	width := e.Target.PointerWidth()
	off := cmd.RegNum * width
	if off < 0 || off+width > len(data) {
		return ExecOutcome{}, writeErrno(w, EINVAL)
	}
	return ExecOutcome{}, w.WriteHex(data[off : off+width])
}

func (e *Executor) execWriteRegister(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	dst := make([]byte, len(cmd.Data)/2)
	n, err := DecodeHex(dst, cmd.Data)
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EINVAL)
	}
	full, err := e.Target.ReadRegisters(e.firstThread())
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	width := e.Target.PointerWidth()
	off := cmd.RegNum * width
	if off < 0 || off+n > len(full) {
		return ExecOutcome{}, writeErrno(w, EINVAL)
	}
	copy(full[off:off+n], dst[:n])
	if err := e.Target.WriteRegisters(e.firstThread(), full); err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	return ExecOutcome{}, w.WriteString("OK")
}

func (e *Executor) execReadMemory(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	buf := make([]byte, cmd.Length)
	n, err := e.Target.ReadMemory(cmd.Addr, buf)
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EFAULT)
	}
	return ExecOutcome{}, w.WriteHex(buf[:n])
}

func (e *Executor) execWriteMemory(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	var data []byte
	if cmd.Kind == CmdWriteMemoryBinary {
		data = cmd.Data
	} else {
		dst := make([]byte, len(cmd.Data)/2)
		n, err := DecodeHex(dst, cmd.Data)
		if err != nil {
			return ExecOutcome{}, writeErrno(w, EINVAL)
		}
		data = dst[:n]
	}
	if err := e.Target.WriteMemory(cmd.Addr, data); err != nil {
		return ExecOutcome{}, writeErrno(w, EFAULT)
	}
	return ExecOutcome{}, w.WriteString("OK")
}

// execLegacyResume translates the legacy `c`/`s` packets, superseded by
// vCont when the target supports it, per spec.md §4.E.
func (e *Executor) execLegacyResume(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	if e.Caps.Resume == nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	tid := e.firstThread()
	var err error
	if cmd.Kind == CmdContinue {
		err = e.Caps.Resume.Continue(tid, nil)
	} else {
		err = e.Caps.Resume.Step(tid, nil)
	}
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	return ExecOutcome{Resumed: true}, nil
}

// execVCont applies every action in cmd.VContActions. Per spec.md
// §4.E: a thread with no matching action stays stopped, and `c` with
// thread-id 0 ("any") is "continue all" (a workaround for a client bug
// that sends 0 where -1 is meant, scoped to this packet only).
func (e *Executor) execVCont(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	if e.Caps.Resume == nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	for _, a := range cmd.VContActions {
		tid := a.Tid
		if (a.Action == 'c' || a.Action == 'C') && tid.Pid == 0 && tid.Tid == 0 {
			tid = AllThreads
		}
		var err error
		switch a.Action {
		case 'c', 'C':
			err = e.Caps.Resume.Continue(tid, a.Signal)
		case 's', 'S':
			err = e.Caps.Resume.Step(tid, a.Signal)
		case 'r':
			if e.Caps.RangeStep == nil {
				return ExecOutcome{}, writeErrno(w, EUNKNOWN)
			}
			err = e.Caps.RangeStep.RangeStep(tid, a.RangeLo, a.RangeHi)
		case 't':
			// "stop" action: nothing to do, thread is left/returned stopped.
		}
		if err != nil {
			return ExecOutcome{}, writeErrno(w, EUNKNOWN)
		}
	}
	return ExecOutcome{Resumed: true}, nil
}

func (e *Executor) execReverse(cmd Command, w *ResponseWriter, cont bool) (ExecOutcome, error) {
	if e.Caps.ReverseExec == nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	tid := e.firstThread()
	var err error
	if cont {
		err = e.Caps.ReverseExec.ReverseContinue(tid)
	} else {
		err = e.Caps.ReverseExec.ReverseStep(tid)
	}
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	return ExecOutcome{Resumed: true}, nil
}

func (e *Executor) execSetBreakpoint(cmd Command, w *ResponseWriter) error {
	switch cmd.BreakpointKind {
	case 0:
		if e.Caps.Breakpoint == nil {
			return w.WriteString("")
		}
		if err := e.Caps.Breakpoint.AddSWBreakpoint(cmd.Addr, cmd.Length); err != nil {
			return writeErrno(w, EUNKNOWN)
		}
	case 1:
		if e.Caps.Breakpoint == nil {
			return w.WriteString("")
		}
		if err := e.Caps.Breakpoint.AddHWBreakpoint(cmd.Addr, cmd.Length); err != nil {
			return writeErrno(w, EUNKNOWN)
		}
	case 2, 3, 4:
		if e.Caps.Watchpoint == nil {
			return w.WriteString("")
		}
		kind := watchKindFromZType(cmd.BreakpointKind)
		if err := e.Caps.Watchpoint.AddWatchpoint(cmd.Addr, cmd.Length, kind); err != nil {
			return writeErrno(w, EUNKNOWN)
		}
	default:
		return w.WriteString("")
	}
	return w.WriteString("OK")
}

func (e *Executor) execRemoveBreakpoint(cmd Command, w *ResponseWriter) error {
	switch cmd.BreakpointKind {
	case 0:
		if e.Caps.Breakpoint == nil {
			return w.WriteString("")
		}
		if err := e.Caps.Breakpoint.RemoveSWBreakpoint(cmd.Addr, cmd.Length); err != nil {
			return writeErrno(w, EUNKNOWN)
		}
	case 1:
		if e.Caps.Breakpoint == nil {
			return w.WriteString("")
		}
		if err := e.Caps.Breakpoint.RemoveHWBreakpoint(cmd.Addr, cmd.Length); err != nil {
			return writeErrno(w, EUNKNOWN)
		}
	case 2, 3, 4:
		if e.Caps.Watchpoint == nil {
			return w.WriteString("")
		}
		kind := watchKindFromZType(cmd.BreakpointKind)
		if err := e.Caps.Watchpoint.RemoveWatchpoint(cmd.Addr, cmd.Length, kind); err != nil {
			return writeErrno(w, EUNKNOWN)
		}
	default:
		return w.WriteString("")
	}
	return w.WriteString("OK")
}

func watchKindFromZType(t int) WatchKind {
	switch t {
	case 3:
		return WatchRead
	case 4:
		return WatchAccess
	default:
		return WatchWrite
	}
}

func (e *Executor) execIsThreadAlive(cmd Command, w *ResponseWriter) error {
	for _, t := range e.Target.Threads() {
		if t == cmd.Tid {
			return w.WriteString("OK")
		}
	}
	return writeErrno(w, EUNKNOWN)
}

func (e *Executor) execQC(w *ResponseWriter) error {
	return w.WriteString("QC" + e.firstThread().ToWire(e.Multiprocess))
}

func (e *Executor) execQfThreadInfo(w *ResponseWriter) error {
	threads := e.Target.Threads()
	if len(threads) == 0 {
		return w.WriteString("l")
	}
	out := "m"
	for i, t := range threads {
		if i > 0 {
			out += ","
		}
		out += t.ToWire(e.Multiprocess)
	}
	return w.WriteString(out)
}

func (e *Executor) execThreadExtraInfo(cmd Command, w *ResponseWriter) error {
	if e.Caps.ThreadExtraInfo == nil {
		return w.WriteString("")
	}
	s := e.Caps.ThreadExtraInfo.ThreadExtraInfo(cmd.Tid)
	return w.WriteHex([]byte(s))
}

func (e *Executor) execQXfer(cmd Command, w *ResponseWriter) error {
	var data []byte
	switch cmd.Kind {
	case CmdQXferFeaturesRead:
		if e.Caps.Description == nil {
			return w.WriteString("")
		}
		data = []byte(e.Caps.Description.TargetDescriptionXML())
	case CmdQXferMemoryMapRead:
		if e.Caps.MemoryMap == nil {
			return w.WriteString("")
		}
		data = []byte(e.Caps.MemoryMap.MemoryMapXML())
	case CmdQXferAuxvRead:
		if e.Caps.Auxv == nil {
			return w.WriteString("")
		}
		data = e.Caps.Auxv.Auxv(e.firstThread().Pid)
	case CmdQXferExecFileRead:
		if e.Caps.ExecFile == nil {
			return w.WriteString("")
		}
		data = []byte(e.Caps.ExecFile.ExecFile(e.firstThread().Pid))
	case CmdQXferLibrariesRead, CmdQXferLibrariesSVR4Read:
		if e.Caps.Libraries == nil {
			return w.WriteString("")
		}
		data = []byte(e.Caps.Libraries.LibrariesXML())
	default:
		return w.WriteString("")
	}
	return writeQXferChunk(w, data, cmd.Offset, cmd.Length)
}

// writeQXferChunk implements the `m`(more)/`l`(last) chunked-read
// protocol shared by every qXfer object, per spec.md §4.E.
func writeQXferChunk(w *ResponseWriter, data []byte, offset, length uint64) error {
	if offset > uint64(len(data)) {
		return writeErrno(w, EINVAL)
	}
	end := offset + length
	more := true
	if end >= uint64(len(data)) {
		end = uint64(len(data))
		more = false
	}
	marker := byte('l')
	if more {
		marker = 'm'
	}
	if err := w.WriteByte(marker); err != nil {
		return err
	}
	return w.WriteBytes(data[offset:end])
}

func (e *Executor) execHostIO(cmd Command, w *ResponseWriter) error {
	if e.Caps.HostIO == nil {
		return w.WriteString("")
	}
	switch cmd.Kind {
	case CmdVFileOpen:
		fd, errno := e.Caps.HostIO.HostOpen(cmd.Path, cmd.Flags, cmd.Mode)
		if errno != 0 {
			return writeErrno(w, errno)
		}
		return w.WriteString("F" + strconv.FormatInt(int64(fd), 16))
	case CmdVFileClose:
		if errno := e.Caps.HostIO.HostClose(cmd.FD); errno != 0 {
			return writeErrno(w, errno)
		}
		return w.WriteString("F0")
	case CmdVFilePRead:
		data, errno := e.Caps.HostIO.HostPRead(cmd.FD, cmd.Count, cmd.Offset)
		if errno != 0 {
			return writeErrno(w, errno)
		}
		if err := w.WriteString("F" + strconv.FormatInt(int64(len(data)), 16) + ";"); err != nil {
			return err
		}
		return escapeAndWrite(w, data)
	case CmdVFilePWrite:
		n, errno := e.Caps.HostIO.HostPWrite(cmd.FD, cmd.Offset, cmd.Data)
		if errno != 0 {
			return writeErrno(w, errno)
		}
		return w.WriteString("F" + strconv.FormatInt(int64(n), 16))
	case CmdVFileFStat:
		st, errno := e.Caps.HostIO.HostFStat(cmd.FD)
		if errno != 0 {
			return writeErrno(w, errno)
		}
		return writeHostStat(w, st)
	case CmdVFileUnlink:
		if errno := e.Caps.HostIO.HostUnlink(cmd.Path); errno != 0 {
			return writeErrno(w, errno)
		}
		return w.WriteString("F0")
	case CmdVFileReadlink:
		target, errno := e.Caps.HostIO.HostReadlink(cmd.Path)
		if errno != 0 {
			return writeErrno(w, errno)
		}
		if err := w.WriteString("F" + strconv.FormatInt(int64(len(target)), 16) + ";"); err != nil {
			return err
		}
		return escapeAndWrite(w, []byte(target))
	case CmdVFileSetFS:
		if errno := e.Caps.HostIO.HostSetFS(cmd.Pid); errno != 0 {
			return writeErrno(w, errno)
		}
		return w.WriteString("F0")
	}
	return w.WriteString("")
}

func writeHostStat(w *ResponseWriter, st HostStat) error {
	if err := w.WriteString("F" + strconv.FormatInt(64, 16) + ";"); err != nil {
		return err
	}
	if err := w.WriteHexUint64(uint64(st.Mode), 4, true); err != nil {
		return err
	}
	if err := w.WriteHexUint64(0, 4, true); err != nil { // dev
		return err
	}
	if err := w.WriteHexUint64(0, 4, true); err != nil { // ino
		return err
	}
	if err := w.WriteHexUint64(uint64(st.Mode), 4, true); err != nil { // mode (dup)
		return err
	}
	if err := w.WriteHexUint64(1, 4, true); err != nil { // nlink
		return err
	}
	if err := w.WriteHexUint64(uint64(st.UID), 4, true); err != nil {
		return err
	}
	if err := w.WriteHexUint64(uint64(st.GID), 4, true); err != nil {
		return err
	}
	if err := w.WriteHexUint64(0, 4, true); err != nil { // rdev
		return err
	}
	if err := w.WriteHexUint64(st.Size, 8, true); err != nil {
		return err
	}
	if err := w.WriteHexUint64(512, 8, true); err != nil { // blksize
		return err
	}
	if err := w.WriteHexUint64((st.Size+511)/512, 8, true); err != nil { // blocks
		return err
	}
	if err := w.WriteHexUint64(uint64(st.ATime), 4, true); err != nil {
		return err
	}
	if err := w.WriteHexUint64(uint64(st.MTime), 4, true); err != nil {
		return err
	}
	return w.WriteHexUint64(uint64(st.CTime), 4, true)
}

func (e *Executor) execVRun(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	if e.Caps.ExtendedMode == nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	tid, err := e.Caps.ExtendedMode.Run(cmd.Argv)
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	r := StopReason{Kind: StopSignal, Tid: tid, Signal: SIGTRAP}
	return ExecOutcome{}, r.Format(w, e.Multiprocess)
}

func (e *Executor) execVAttach(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	if e.Caps.ExtendedMode == nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	tid, err := e.Caps.ExtendedMode.Attach(cmd.Pid)
	if err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	r := StopReason{Kind: StopSignal, Tid: tid, Signal: SIGTRAP}
	return ExecOutcome{}, r.Format(w, e.Multiprocess)
}

func (e *Executor) execVKill(cmd Command, w *ResponseWriter) (ExecOutcome, error) {
	if e.Caps.ExtendedMode == nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	if err := e.Caps.ExtendedMode.Kill(cmd.Pid); err != nil {
		return ExecOutcome{}, writeErrno(w, EUNKNOWN)
	}
	return ExecOutcome{}, w.WriteString("OK")
}

func (e *Executor) execRestart(w *ResponseWriter) error {
	if e.Caps.ExtendedMode == nil {
		return w.WriteString("")
	}
	if err := e.Caps.ExtendedMode.Restart(); err != nil {
		return writeErrno(w, EUNKNOWN)
	}
	return nil
}

func (e *Executor) execExtendedModeConfig(cmd Command, w *ResponseWriter) error {
	if e.Caps.ExtendedMode == nil {
		return w.WriteString("")
	}
	var err error
	switch cmd.Kind {
	case CmdSetEnv:
		err = e.Caps.ExtendedMode.SetEnv(cmd.EnvKey, cmd.EnvValue)
	case CmdUnsetEnv:
		err = e.Caps.ExtendedMode.UnsetEnv(cmd.EnvKey)
	case CmdResetEnv:
		err = e.Caps.ExtendedMode.ResetEnv()
	case CmdSetWorkingDir:
		err = e.Caps.ExtendedMode.SetCWD(cmd.Path)
	case CmdStartupWithShell:
		err = e.Caps.ExtendedMode.SetStartupWithShell(cmd.Flags == 1)
	case CmdDisableRandomization:
		err = e.Caps.ExtendedMode.SetASLR(cmd.Flags != 1)
	}
	if err != nil {
		return writeErrno(w, EUNKNOWN)
	}
	return w.WriteString("OK")
}

func (e *Executor) execQRcmd(cmd Command, w *ResponseWriter) error {
	if e.Caps.Monitor == nil {
		return w.WriteString("")
	}
	dst := make([]byte, len(cmd.RawHex)/2)
	n, err := DecodeHex(dst, cmd.RawHex)
	if err != nil {
		return writeErrno(w, EINVAL)
	}
	// The command's output is discarded: no `O`-prefixed packets are
	// sent, and the reply is only OK or an error.
	runErr := e.Caps.Monitor.MonitorCommand(string(dst[:n]), func(string) {})
	if runErr != nil {
		return writeErrno(w, EUNKNOWN)
	}
	return w.WriteString("OK")
}

func (e *Executor) execQOffsets(w *ResponseWriter) error {
	if e.Caps.SectionOffsets == nil {
		return w.WriteString("")
	}
	text, data, bss := e.Caps.SectionOffsets.SectionOffsets()
	return w.WriteString("Text=" + strconv.FormatUint(text, 16) +
		";Data=" + strconv.FormatUint(data, 16) +
		";Bss=" + strconv.FormatUint(bss, 16))
}

func (e *Executor) execQRegisterInfo(cmd Command, w *ResponseWriter) error {
	if e.Caps.RegisterInfo == nil {
		return w.WriteString("")
	}
	info, ok := e.Caps.RegisterInfo.RegisterInfo(cmd.RegNum)
	if !ok {
		return writeErrno(w, EINVAL)
	}
	out := "name:" + info.Name + ";bitsize:" + strconv.Itoa(info.BitSize) +
		";offset:" + strconv.Itoa(info.Offset) +
		";encoding:" + info.Encoding + ";format:" + info.Format +
		";set:" + info.Set
	if info.Generic != "" {
		out += ";generic:" + info.Generic
	}
	out += ";gcc:" + strconv.Itoa(info.GCCRegNum) + ";dwarf:" + strconv.Itoa(info.DWARFRegNo)
	return w.WriteString(out)
}

func (e *Executor) execQHostInfo(w *ResponseWriter) error {
	if e.Caps.RegisterInfo == nil {
		return w.WriteString("")
	}
	return w.WriteString(e.Caps.RegisterInfo.HostInfo())
}

func (e *Executor) execQProcessInfo(w *ResponseWriter) error {
	if e.Caps.RegisterInfo == nil {
		return w.WriteString("")
	}
	return w.WriteString(e.Caps.RegisterInfo.ProcessInfo(e.firstThread().Pid))
}

func (e *Executor) execQCatchSyscalls(cmd Command, w *ResponseWriter) error {
	if e.Caps.CatchSyscalls == nil {
		return w.WriteString("")
	}
	if err := e.Caps.CatchSyscalls.SetCatchSyscalls(cmd.CatchEnabled, cmd.CatchSyscalls); err != nil {
		return writeErrno(w, EUNKNOWN)
	}
	return w.WriteString("OK")
}
