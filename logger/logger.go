package logger

import "fmt"

// Logger collects log lines on a channel so a UI (or the headless drain) can
// display them without writing to the terminal behind tview's back.
type Logger struct {
	Prints chan string
}

func Init() *Logger {
	return &Logger{make(chan string, 100)}
}

func (l *Logger) Print(s string) {
	select {
	case l.Prints <- s:
	default:
		// nobody is draining; dropping beats blocking the pump
	}
}

func (l *Logger) Printf(s string, as ...interface{}) {
	l.Print(fmt.Sprintf(s, as...))
}

func (l *Logger) PrintError(source string, err error) {
	l.Printf("Error(%s) -> %s", source, err.Error())
}
