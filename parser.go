package gdbstub

import (
	"bytes"
)

// ParseCommand parses the decoded payload of one packet into a Command,
// selecting parse rules from caps, per spec.md §4.C. It never allocates
// beyond what is unavoidable for string fields, never panics on
// malformed input, and returns ErrMalformedPacket (not an error for the
// caller to treat as fatal — spec.md §7) when a field cannot be parsed.
// Unknown commands produce CmdUnknown, not an error.
func ParseCommand(payload []byte, caps CapabilitySet) (Command, error) {
	if len(payload) == 0 {
		return Command{Kind: CmdUnknown}, nil
	}

	switch payload[0] {
	case '?':
		return Command{Kind: CmdHaltReason}, nil
	case 'g':
		return Command{Kind: CmdReadRegisters}, nil
	case 'G':
		return Command{Kind: CmdWriteRegisters, Data: payload[1:]}, nil
	case 'p':
		n, err := ParseHexUint64(payload[1:])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdReadRegister, RegNum: int(n)}, nil
	case 'P':
		return parseWriteRegister(payload[1:])
	case 'm':
		return parseAddrLength(payload[1:], CmdReadMemory)
	case 'M':
		return parseWriteMemory(payload[1:])
	case 'X':
		return parseWriteMemoryBinary(payload[1:])
	case 'c':
		return parseResume(payload[1:], CmdContinue)
	case 's':
		return parseResume(payload[1:], CmdStep)
	case 'Z':
		return parseBreakpoint(payload[1:], caps, true)
	case 'z':
		return parseBreakpoint(payload[1:], caps, false)
	case 'H':
		return parseSetThread(payload[1:])
	case 'T':
		tid, err := ParseThreadID(string(payload[1:]))
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdIsThreadAlive, Tid: tid}, nil
	case 'D':
		return Command{Kind: CmdDetach}, nil
	case 'k':
		return Command{Kind: CmdKill}, nil
	case 'R':
		return Command{Kind: CmdRestart}, nil
	case 'v':
		return parseVPacket(payload, caps)
	case 'q':
		return parseQPacket(payload, caps)
	case 'Q':
		return parseQUpperPacket(payload, caps)
	case 'b':
		return parseReverse(payload)
	}
	return Command{Kind: CmdUnknown}, nil
}

func parseWriteRegister(rest []byte) (Command, error) {
	eq := bytes.IndexByte(rest, '=')
	if eq < 0 {
		return Command{}, ErrMalformedPacket
	}
	n, err := ParseHexUint64(rest[:eq])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdWriteRegister, RegNum: int(n), Data: rest[eq+1:]}, nil
}

func parseAddrLength(rest []byte, kind CommandKind) (Command, error) {
	comma := bytes.IndexByte(rest, ',')
	if comma < 0 {
		return Command{}, ErrMalformedPacket
	}
	addr, err := ParseHexUint64(rest[:comma])
	if err != nil {
		return Command{}, err
	}
	length, err := ParseHexUint64(rest[comma+1:])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: kind, Addr: addr, Length: length}, nil
}

func parseWriteMemory(rest []byte) (Command, error) {
	colon := bytes.IndexByte(rest, ':')
	if colon < 0 {
		return Command{}, ErrMalformedPacket
	}
	cmd, err := parseAddrLength(rest[:colon], CmdWriteMemory)
	if err != nil {
		return Command{}, err
	}
	cmd.Data = rest[colon+1:]
	return cmd, nil
}

func parseWriteMemoryBinary(rest []byte) (Command, error) {
	colon := bytes.IndexByte(rest, ':')
	if colon < 0 {
		return Command{}, ErrMalformedPacket
	}
	cmd, err := parseAddrLength(rest[:colon], CmdWriteMemoryBinary)
	if err != nil {
		return Command{}, err
	}
	cmd.Data = unescapeBinary(rest[colon+1:])
	return cmd, nil
}

// unescapeBinary decodes the X-packet's escaped-binary payload in
// place: `}X` -> `X XOR 0x20`, everything else verbatim.
func unescapeBinary(b []byte) []byte {
	n, err := unescape(b)
	if err != nil {
		return b[:0]
	}
	return b[:n]
}

func parseResume(rest []byte, kind CommandKind) (Command, error) {
	cmd := Command{Kind: kind}
	if len(rest) == 0 {
		return cmd, nil
	}
	addr, err := ParseHexUint64(rest)
	if err != nil {
		return Command{}, err
	}
	cmd.Addr = addr
	return cmd, nil
}

func parseReverse(payload []byte) (Command, error) {
	switch {
	case bytes.Equal(payload, []byte("bc")):
		return Command{Kind: CmdReverseContinue}, nil
	case bytes.Equal(payload, []byte("bs")):
		return Command{Kind: CmdReverseStep}, nil
	}
	return Command{Kind: CmdUnknown}, nil
}

// parseBreakpoint parses `Zn,addr,kind[;cond_list…][;cmd_list…]` (set)
// or `zn,addr,kind` (remove). Conditional/command lists are accepted on
// the wire per spec.md §4.C point 2 and always kept in CondList/CmdList,
// whatever caps declares; the executor does not act on them.
func parseBreakpoint(rest []byte, caps CapabilitySet, set bool) (Command, error) {
	if len(rest) < 2 || rest[1] != ',' {
		return Command{}, ErrMalformedPacket
	}
	typ, ok := hexValue(rest[0])
	if !ok {
		return Command{}, ErrMalformedPacket
	}
	body := rest[2:]
	kind := CmdRemoveBreakpoint
	if set {
		kind = CmdAddBreakpoint
	}
	cmd := Command{Kind: kind, BreakpointKind: int(typ)}

	// Split off condition/command lists, present only on `Z` and only
	// when there's a trailing ';'.
	main := body
	var extra []byte
	if semi := bytes.IndexByte(body, ';'); semi >= 0 {
		main = body[:semi]
		extra = body[semi+1:]
	}
	comma := bytes.IndexByte(main, ',')
	if comma < 0 {
		return Command{}, ErrMalformedPacket
	}
	addr, err := ParseHexUint64(main[:comma])
	if err != nil {
		return Command{}, err
	}
	archKind, err := ParseHexUint64(main[comma+1:])
	if err != nil {
		return Command{}, err
	}
	cmd.Addr = addr
	// The architecture-specific kind is authoritative over the fixed
	// breakpoint-type nibble, per spec.md §4.E.
	cmd.Length = archKind

	if extra != nil {
		for _, field := range bytes.Split(extra, []byte(";")) {
			if len(field) == 0 {
				continue
			}
			if field[0] == 'X' {
				cmd.CondList = append(cmd.CondList, field)
			} else {
				cmd.CmdList = append(cmd.CmdList, field)
			}
		}
	}
	return cmd, nil
}

func parseSetThread(rest []byte) (Command, error) {
	if len(rest) == 0 {
		return Command{}, ErrMalformedPacket
	}
	op := rest[0]
	if op != 'g' && op != 'c' {
		return Command{}, ErrMalformedPacket
	}
	tid, err := ParseThreadID(string(rest[1:]))
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdSetThread, ThreadOp: op, Tid: tid}, nil
}

func parseVPacket(payload []byte, caps CapabilitySet) (Command, error) {
	switch {
	case bytes.Equal(payload, []byte("vCont?")):
		return Command{Kind: CmdVContQuery}, nil
	case bytes.HasPrefix(payload, []byte("vCont")):
		return parseVCont(payload[len("vCont"):])
	case bytes.Equal(payload, []byte("vMustReplyEmpty")):
		return Command{Kind: CmdVMustReplyEmpty}, nil
	case bytes.HasPrefix(payload, []byte("vRun")):
		return parseVRun(payload)
	case bytes.HasPrefix(payload, []byte("vAttach;")):
		pid, err := ParseHexUint64(payload[len("vAttach;"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdVAttach, Pid: int32(pid)}, nil
	case bytes.HasPrefix(payload, []byte("vKill;")):
		pid, err := ParseHexUint64(payload[len("vKill;"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdVKill, Pid: int32(pid)}, nil
	case bytes.HasPrefix(payload, []byte("vFile:")):
		return parseVFile(payload[len("vFile:"):])
	}
	return Command{Kind: CmdUnknown}, nil
}

func parseVCont(rest []byte) (Command, error) {
	cmd := Command{Kind: CmdVCont}
	if len(rest) == 0 {
		return cmd, nil
	}
	if rest[0] != ';' {
		return Command{}, ErrMalformedPacket
	}
	for _, clause := range bytes.Split(rest[1:], []byte(";")) {
		if len(clause) == 0 {
			return Command{}, ErrMalformedPacket
		}
		action := clause[0]
		var sig *Signal
		idx := 1
		if action == 'C' || action == 'S' {
			// CsigOrS: CC follows as 2 hex digits of signal, before any ':'
			colon := bytes.IndexByte(clause, ':')
			sigField := clause[1:]
			if colon >= 0 {
				sigField = clause[1:colon]
			}
			v, err := ParseHexUint64(sigField)
			if err != nil {
				return Command{}, err
			}
			s := Signal(v)
			sig = &s
			idx = 1 + len(sigField)
		}
		va := VContAction{Action: action, Signal: sig}
		if idx < len(clause) && clause[idx] == ':' {
			field := clause[idx+1:]
			if r := bytes.IndexByte(field, ','); r >= 0 && action == 'r' {
				lo, err := ParseHexUint64(field[:r])
				if err != nil {
					return Command{}, err
				}
				field2 := field[r+1:]
				var tidField []byte
				if c := bytes.IndexByte(field2, ':'); c >= 0 {
					hi, err := ParseHexUint64(field2[:c])
					if err != nil {
						return Command{}, err
					}
					va.RangeLo, va.RangeHi = lo, hi
					tidField = field2[c+1:]
				} else {
					hi, err := ParseHexUint64(field2)
					if err != nil {
						return Command{}, err
					}
					va.RangeLo, va.RangeHi = lo, hi
				}
				if len(tidField) > 0 {
					tid, err := ParseThreadID(string(tidField))
					if err != nil {
						return Command{}, err
					}
					va.Tid = tid
				}
			} else {
				tid, err := ParseThreadID(string(field))
				if err != nil {
					return Command{}, err
				}
				va.Tid = tid
			}
		}
		cmd.VContActions = append(cmd.VContActions, va)
	}
	return cmd, nil
}

func parseVRun(payload []byte) (Command, error) {
	cmd := Command{Kind: CmdVRun}
	rest := payload[len("vRun"):]
	if len(rest) == 0 {
		return cmd, nil
	}
	if rest[0] != ';' {
		return Command{}, ErrMalformedPacket
	}
	for _, field := range bytes.Split(rest[1:], []byte(";")) {
		if len(field) == 0 {
			cmd.Argv = append(cmd.Argv, "")
			continue
		}
		dst := make([]byte, len(field)/2)
		n, err := DecodeHex(dst, field)
		if err != nil {
			return Command{}, err
		}
		cmd.Argv = append(cmd.Argv, string(dst[:n]))
	}
	return cmd, nil
}

func parseVFile(rest []byte) (Command, error) {
	switch {
	case bytes.HasPrefix(rest, []byte("open:")):
		return parseVFileOpen(rest[len("open:"):])
	case bytes.HasPrefix(rest, []byte("close:")):
		fd, err := ParseHexUint64(rest[len("close:"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdVFileClose, FD: int32(fd)}, nil
	case bytes.HasPrefix(rest, []byte("pread:")):
		return parseVFilePRead(rest[len("pread:"):])
	case bytes.HasPrefix(rest, []byte("pwrite:")):
		return parseVFilePWrite(rest[len("pwrite:"):])
	case bytes.HasPrefix(rest, []byte("fstat:")):
		fd, err := ParseHexUint64(rest[len("fstat:"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdVFileFStat, FD: int32(fd)}, nil
	case bytes.HasPrefix(rest, []byte("unlink:")):
		path, err := decodeHexString(rest[len("unlink:"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdVFileUnlink, Path: path}, nil
	case bytes.HasPrefix(rest, []byte("readlink:")):
		path, err := decodeHexString(rest[len("readlink:"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdVFileReadlink, Path: path}, nil
	case bytes.HasPrefix(rest, []byte("setfs:")):
		pid, err := ParseHexUint64(rest[len("setfs:"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdVFileSetFS, Pid: int32(pid)}, nil
	}
	return Command{Kind: CmdUnknown}, nil
}

func decodeHexString(b []byte) (string, error) {
	dst := make([]byte, len(b)/2)
	n, err := DecodeHex(dst, b)
	if err != nil {
		return "", err
	}
	return string(dst[:n]), nil
}

func parseVFileOpen(rest []byte) (Command, error) {
	parts := bytes.Split(rest, []byte(","))
	if len(parts) != 3 {
		return Command{}, ErrMalformedPacket
	}
	path, err := decodeHexString(parts[0])
	if err != nil {
		return Command{}, err
	}
	flags, err := ParseHexUint64(parts[1])
	if err != nil {
		return Command{}, err
	}
	mode, err := ParseHexUint64(parts[2])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdVFileOpen, Path: path, Flags: uint32(flags), Mode: uint32(mode)}, nil
}

func parseVFilePRead(rest []byte) (Command, error) {
	parts := bytes.Split(rest, []byte(","))
	if len(parts) != 3 {
		return Command{}, ErrMalformedPacket
	}
	fd, err := ParseHexUint64(parts[0])
	if err != nil {
		return Command{}, err
	}
	count, err := ParseHexUint64(parts[1])
	if err != nil {
		return Command{}, err
	}
	offset, err := ParseHexUint64(parts[2])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdVFilePRead, FD: int32(fd), Count: count, Offset: offset}, nil
}

func parseVFilePWrite(rest []byte) (Command, error) {
	p1 := bytes.IndexByte(rest, ',')
	if p1 < 0 {
		return Command{}, ErrMalformedPacket
	}
	p2 := bytes.IndexByte(rest[p1+1:], ',')
	if p2 < 0 {
		return Command{}, ErrMalformedPacket
	}
	p2 += p1 + 1
	fd, err := ParseHexUint64(rest[:p1])
	if err != nil {
		return Command{}, err
	}
	offset, err := ParseHexUint64(rest[p1+1 : p2])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdVFilePWrite, FD: int32(fd), Offset: offset, Data: unescapeBinary(rest[p2+1:])}, nil
}

func parseQPacket(payload []byte, caps CapabilitySet) (Command, error) {
	switch {
	case bytes.HasPrefix(payload, []byte("qSupported")):
		cmd := Command{Kind: CmdQSupported}
		if colon := bytes.IndexByte(payload, ':'); colon >= 0 {
			for _, f := range bytes.Split(payload[colon+1:], []byte(";")) {
				cmd.ClientFeatures = append(cmd.ClientFeatures, string(f))
			}
		}
		return cmd, nil
	case bytes.Equal(payload, []byte("qC")):
		return Command{Kind: CmdQC}, nil
	case bytes.Equal(payload, []byte("qfThreadInfo")):
		return Command{Kind: CmdQfThreadInfo}, nil
	case bytes.Equal(payload, []byte("qsThreadInfo")):
		return Command{Kind: CmdQsThreadInfo}, nil
	case bytes.HasPrefix(payload, []byte("qAttached")):
		return Command{Kind: CmdQAttached}, nil
	case bytes.HasPrefix(payload, []byte("qThreadExtraInfo,")):
		tid, err := ParseThreadID(string(payload[len("qThreadExtraInfo,"):]))
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdThreadExtraInfo, Tid: tid}, nil
	case bytes.HasPrefix(payload, []byte("qRcmd,")):
		return Command{Kind: CmdQRcmd, RawHex: payload[len("qRcmd,"):]}, nil
	case bytes.Equal(payload, []byte("qOffsets")):
		return Command{Kind: CmdQOffsets}, nil
	case bytes.HasPrefix(payload, []byte("qRegisterInfo")):
		n, err := ParseHexUint64(payload[len("qRegisterInfo"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdQRegisterInfo, RegNum: int(n)}, nil
	case bytes.Equal(payload, []byte("qHostInfo")):
		return Command{Kind: CmdQHostInfo}, nil
	case bytes.HasPrefix(payload, []byte("qProcessInfo")):
		return Command{Kind: CmdQProcessInfo}, nil
	case bytes.HasPrefix(payload, []byte("qSymbol")):
		return Command{Kind: CmdQSymbol}, nil
	case bytes.HasPrefix(payload, []byte("qXfer:")):
		return parseQXfer(payload[len("qXfer:"):])
	}
	return Command{Kind: CmdUnknown}, nil
}

func parseQXfer(rest []byte) (Command, error) {
	parts := bytes.SplitN(rest, []byte(":"), 4)
	if len(parts) != 4 {
		return Command{}, ErrMalformedPacket
	}
	object, op, annex, offLen := string(parts[0]), string(parts[1]), string(parts[2]), parts[3]
	if op != "read" {
		return Command{Kind: CmdUnknown}, nil
	}
	comma := bytes.IndexByte(offLen, ',')
	if comma < 0 {
		return Command{}, ErrMalformedPacket
	}
	offset, err := ParseHexUint64(offLen[:comma])
	if err != nil {
		return Command{}, err
	}
	length, err := ParseHexUint64(offLen[comma+1:])
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Annex: annex, Offset: offset, Length: length}
	switch object {
	case "features":
		cmd.Kind = CmdQXferFeaturesRead
	case "memory-map":
		cmd.Kind = CmdQXferMemoryMapRead
	case "auxv":
		cmd.Kind = CmdQXferAuxvRead
	case "exec-file":
		cmd.Kind = CmdQXferExecFileRead
	case "libraries":
		cmd.Kind = CmdQXferLibrariesRead
	case "libraries-svr4":
		cmd.Kind = CmdQXferLibrariesSVR4Read
	default:
		cmd.Kind = CmdUnknown
	}
	return cmd, nil
}

func parseQUpperPacket(payload []byte, caps CapabilitySet) (Command, error) {
	switch {
	case bytes.Equal(payload, []byte("QStartNoAckMode")):
		return Command{Kind: CmdStartNoAckMode}, nil
	case bytes.HasPrefix(payload, []byte("QEnvironmentHexEncoded:")):
		return parseQEnvironmentHexEncoded(payload[len("QEnvironmentHexEncoded:"):])
	case bytes.HasPrefix(payload, []byte("QEnvironmentUnset:")):
		key, err := decodeHexString(payload[len("QEnvironmentUnset:"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdUnsetEnv, EnvKey: key}, nil
	case bytes.Equal(payload, []byte("QEnvironmentReset")):
		return Command{Kind: CmdResetEnv}, nil
	case bytes.HasPrefix(payload, []byte("QSetWorkingDir:")):
		path, err := decodeHexString(payload[len("QSetWorkingDir:"):])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdSetWorkingDir, Path: path}, nil
	case bytes.HasPrefix(payload, []byte("QStartupWithShell:")):
		return Command{Kind: CmdStartupWithShell, Flags: boolFlag(payload[len("QStartupWithShell:"):])}, nil
	case bytes.HasPrefix(payload, []byte("QDisableRandomization:")):
		return Command{Kind: CmdDisableRandomization, Flags: boolFlag(payload[len("QDisableRandomization:"):])}, nil
	case bytes.HasPrefix(payload, []byte("QCatchSyscalls:")):
		return parseQCatchSyscalls(payload[len("QCatchSyscalls:"):])
	}
	return Command{Kind: CmdUnknown}, nil
}

func boolFlag(b []byte) uint32 {
	if len(b) == 1 && b[0] == '1' {
		return 1
	}
	return 0
}

func parseQEnvironmentHexEncoded(rest []byte) (Command, error) {
	eq := bytes.IndexByte(rest, '=')
	keyHex := rest
	var valHex []byte
	if eq >= 0 {
		keyHex = rest[:eq]
		valHex = rest[eq+1:]
	}
	key, err := decodeHexString(keyHex)
	if err != nil {
		return Command{}, err
	}
	val := ""
	if valHex != nil {
		val, err = decodeHexString(valHex)
		if err != nil {
			return Command{}, err
		}
	}
	return Command{Kind: CmdSetEnv, EnvKey: key, EnvValue: val}, nil
}

func parseQCatchSyscalls(rest []byte) (Command, error) {
	if len(rest) == 0 {
		return Command{}, ErrMalformedPacket
	}
	if rest[0] == '0' {
		return Command{Kind: CmdQCatchSyscalls, CatchEnabled: false}, nil
	}
	cmd := Command{Kind: CmdQCatchSyscalls, CatchEnabled: true}
	if len(rest) > 1 && rest[1] == ';' {
		for _, f := range bytes.Split(rest[2:], []byte(";")) {
			if len(f) == 0 {
				continue
			}
			n, err := ParseHexUint64(f)
			if err != nil {
				return Command{}, err
			}
			cmd.CatchSyscalls = append(cmd.CatchSyscalls, n)
		}
	}
	return cmd, nil
}
