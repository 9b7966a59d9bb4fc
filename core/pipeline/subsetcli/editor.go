package main

import (
	"errors"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/pack"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object for the interactive editor.
type Intp struct {
	app  *app
	repl *readline.Instance
}

func newEditor(a *app) (*Intp, error) {
	repl, err := readline.New("subset > ")
	if err != nil {
		return nil, err
	}
	return &Intp{app: a, repl: repl}, nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	defer intp.repl.Close()
	defer intp.app.closePreview()
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd := parseCommand(line)
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Command is a parsed editor command.
type Command struct {
	code int
	arg  string
}

const (
	QUIT int = iota
	HELP
	TEXT
	ADD
	FAMILY
	SUGGEST
	STACK
	SHOW
	STATS
	EXPORT
	PREVIEW
	RELOAD
)

var commands = map[string]int{
	"quit":    QUIT,
	"exit":    QUIT,
	"help":    HELP,
	"text":    TEXT,
	"add":     ADD,
	"family":  FAMILY,
	"suggest": SUGGEST,
	"stack":   STACK,
	"show":    SHOW,
	"stats":   STATS,
	"export":  EXPORT,
	"preview": PREVIEW,
	"reload":  RELOAD,
}

// parseCommand splits a line into a command word and its argument. Unknown
// commands are interpreted as a request for help.
func parseCommand(line string) Command {
	word, arg := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		word, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	code, ok := commands[strings.ToLower(word)]
	if !ok {
		return Command{code: HELP, arg: word}
	}
	return Command{code: code, arg: arg}
}

func (intp *Intp) execute(cmd Command) (error, bool) {
	a := intp.app
	switch cmd.code {
	case QUIT:
		return nil, true
	case HELP:
		help(cmd.arg)
	case TEXT:
		if cmd.arg == "" {
			return errors.New("text must not be empty"), false
		}
		a.job.Text = cmd.arg
		a.outcome = nil
		intp.coverage()
	case ADD:
		a.job.Text += cmd.arg
		a.outcome = nil
		intp.coverage()
	case FAMILY:
		a.job.FamilyName = cmd.arg
		a.outcome = nil
		pterm.Info.Printfln("Family of subset: %s", intp.family())
	case SUGGEST:
		if err := a.suggest(cmd.arg); err != nil {
			return err, false
		}
		a.outcome = nil
		intp.coverage()
	case STACK:
		pterm.Printfln("font-family: %s;", a.advisor.SuggestStack(a.ctx, intp.family()))
	case SHOW:
		pterm.Printfln("Font:   %s %s (%d glyphs)", a.doc.FamilyName, a.doc.StyleName, a.doc.NumGlyphs())
		pterm.Printfln("Family: %s", intp.family())
		pterm.Printfln("Text:   %s", a.job.Text)
	case STATS:
		if a.outcome == nil {
			if err := a.build(); err != nil {
				return err, false
			}
		}
		a.stats()
	case EXPORT:
		dir := cmd.arg
		if dir == "" {
			dir = "."
		}
		if err := a.export(dir); err != nil {
			return err, false
		}
	case PREVIEW:
		if err := a.preview(false); err != nil {
			return err, false
		}
	case RELOAD:
		if a.job.Source == "" {
			return errors.New("the built-in font cannot be reloaded"), false
		}
		a.session.Forget(a.job.Source)
		if err := a.load(); err != nil {
			return err, false
		}
		a.outcome = nil
	}
	return nil, false
}

func (intp *Intp) family() string {
	if f := strings.TrimSpace(intp.app.job.FamilyName); f != "" {
		return f
	}
	return intp.app.doc.FamilyName
}

func (intp *Intp) coverage() {
	covered, total := intp.app.doc.Coverage(intp.app.job.Text)
	pterm.Info.Printfln("%d distinct characters, %d covered by the font; archive will be %s",
		total, covered, pack.ArchiveName(intp.family()))
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	if topic != "" && topic != "help" {
		pterm.Error.Printfln("Unknown command: %s", topic)
	}
	pterm.Info.Println("Commands")
	pterm.Println(`
	text <s>        replace the subset text
	add <s>         append to the subset text
	family <name>   set the family name of the subset
	suggest <kind>  add suggested text [common_cn|ascii|pangram|marketing]
	stack           suggest a CSS font-family stack
	show            show font, family and text
	stats           show sizes of the subset
	export [dir]    write the package to a directory
	preview         create a preview page
	reload          load the font again, bypassing the cache
	quit            leave the editor
	`)
}
