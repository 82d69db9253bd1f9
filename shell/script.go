package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/domino14/inarow/board"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("inarow_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// command exposes a shell command to Lua. Its one optional argument is the
// rest of the command line; it returns the command's output, or a string
// starting with "ERROR: " if the command failed.
func command(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := name
		if L.GetTop() > 0 {
			line += " " + L.ToString(1)
		}
		sc := getShell(L)
		r, err := sc.Execute(line)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
		} else {
			L.Push(lua.LString(r.message))
		}
		// return number of results pushed to stack.
		return 1
	}
}

// State returns the state of the current game, such as "unfinished" or
// "draw".
func State(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LString(sc.board.State().String()))
	return 1
}

// Turn returns the symbol of the player to move, X or O.
func Turn(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LString(board.PlayerSymbol(sc.board.Turn)))
	return 1
}

var scriptCommands = []string{"new", "show", "move", "engine", "go", "solve", "autoplay", "bench"}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("inarow_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("inarow_"+name, L.NewFunction(command(name)))
	}
	L.SetGlobal("inarow_state", L.NewFunction(State))
	L.SetGlobal("inarow_turn", L.NewFunction(Turn))

	argv := L.NewTable()
	for _, a := range cmd.args[1:] {
		argv.Append(lua.LString(a))
	}
	L.SetGlobal("arg", argv)

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	if ret := L.GetGlobal("result"); ret != lua.LNil {
		return msg(ret.String()), nil
	}
	return nil, nil
}
