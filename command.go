package gdbstub

// CommandKind tags the ~60 RSP packet variants the parser recognizes,
// grouped by protocol-extension family per spec.md §3.
type CommandKind int

const (
	CmdUnknown CommandKind = iota

	// base
	CmdHaltReason
	CmdReadRegisters
	CmdWriteRegisters
	CmdReadRegister
	CmdWriteRegister
	CmdReadMemory
	CmdWriteMemory
	CmdWriteMemoryBinary
	CmdContinue
	CmdStep
	CmdAddBreakpoint
	CmdRemoveBreakpoint
	CmdSetThread
	CmdIsThreadAlive
	CmdDetach
	CmdKill
	CmdQSupported
	CmdStartNoAckMode

	// thread addressing / multiprocess
	CmdQC
	CmdQfThreadInfo
	CmdQsThreadInfo
	CmdQAttached
	CmdThreadExtraInfo

	// resume family
	CmdVContQuery
	CmdVCont
	CmdVMustReplyEmpty
	CmdReverseContinue
	CmdReverseStep

	// extended-remote
	CmdVRun
	CmdVAttach
	CmdVKill
	CmdRestart
	CmdSetEnv
	CmdUnsetEnv
	CmdResetEnv
	CmdSetWorkingDir
	CmdStartupWithShell
	CmdDisableRandomization

	// qXfer objects
	CmdQXferFeaturesRead
	CmdQXferMemoryMapRead
	CmdQXferAuxvRead
	CmdQXferExecFileRead
	CmdQXferLibrariesRead
	CmdQXferLibrariesSVR4Read

	// host I/O
	CmdVFileOpen
	CmdVFileClose
	CmdVFilePRead
	CmdVFilePWrite
	CmdVFileFStat
	CmdVFileUnlink
	CmdVFileReadlink
	CmdVFileSetFS

	// misc queries
	CmdQRcmd
	CmdQOffsets
	CmdQRegisterInfo
	CmdQHostInfo
	CmdQProcessInfo
	CmdQSymbol
	CmdQCatchSyscalls
)

// VContAction is one `;action[:thread-id]` clause of a vCont command.
type VContAction struct {
	Action byte // 'c', 'C', 's', 'S', 'r', or 't'
	Signal *Signal
	Tid    ThreadID // zero value (AnyThread) means "applies to threads with no more specific action"
	RangeLo, RangeHi uint64
}

// Command is a parsed RSP packet. Fields are populated according to
// Kind; byte-slice fields alias the packet buffer and are only valid
// until the next Decode. See spec.md §3 "Command".
type Command struct {
	Kind CommandKind

	Tid ThreadID

	Addr, Length uint64
	RegNum       int
	Data         []byte

	BreakpointKind int
	CondList       [][]byte
	CmdList        [][]byte

	Signal *Signal

	VContActions []VContAction

	Annex  string
	Offset uint64

	Argv []string

	Path              string
	EnvKey, EnvValue  string
	Pid               int32
	Flags, Mode       uint32
	FD                int32
	Count             uint64

	RawHex []byte

	CatchEnabled  bool
	CatchSyscalls []uint64

	ThreadOp byte // 'g' or 'c', for CmdSetThread

	ClientFeatures []string // raw feature tokens from qSupported:...
}
