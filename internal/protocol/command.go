package protocol

// Command identifies one of the fixed protocol commands. The set is closed:
// anything not in the table maps to CmdUnknown and is rejected by the
// dispatcher with an explicit error response.
type Command int

const (
	CmdUnknown Command = iota
	CmdPing
	CmdRead8
	CmdRead16
	CmdRead32
	CmdReadRange
	CmdWrite8
	CmdWrite16
	CmdWrite32
	CmdPress
	CmdGetKeys
	CmdScreenshot
	CmdSaveState
	CmdLoadState
	CmdRunFrames
)

// Wire names for the command set.
const (
	NamePing       = "ping"
	NameRead8      = "read8"
	NameRead16     = "read16"
	NameRead32     = "read32"
	NameReadRange  = "readRange"
	NameWrite8     = "write8"
	NameWrite16    = "write16"
	NameWrite32    = "write32"
	NamePress      = "press"
	NameGetKeys    = "getKeys"
	NameScreenshot = "screenshot"
	NameSaveState  = "saveState"
	NameLoadState  = "loadState"
	NameRunFrames  = "runFrames"
)

var commandsByName = map[string]Command{
	NamePing:       CmdPing,
	NameRead8:      CmdRead8,
	NameRead16:     CmdRead16,
	NameRead32:     CmdRead32,
	NameReadRange:  CmdReadRange,
	NameWrite8:     CmdWrite8,
	NameWrite16:    CmdWrite16,
	NameWrite32:    CmdWrite32,
	NamePress:      CmdPress,
	NameGetKeys:    CmdGetKeys,
	NameScreenshot: CmdScreenshot,
	NameSaveState:  CmdSaveState,
	NameLoadState:  CmdLoadState,
	NameRunFrames:  CmdRunFrames,
}

// ParseCommand resolves a wire command name. Unrecognized names (including
// the empty string) map to CmdUnknown.
func ParseCommand(name string) Command {
	return commandsByName[name]
}
