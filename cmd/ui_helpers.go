package cmd

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startInlineSpinner animates frames followed by text on a single line until
// the returned function is called, which clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

func loginGreeting(name string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s!",
		"🔓 Access granted! Welcome %s!",
	}
	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], name)
}

func printNotLoggedIn(w io.Writer) {
	fmt.Fprintln(w, "🔒 You're not logged in yet!")
	fmt.Fprintln(w, "   Run 'techsite login' to get started.")
}

// formatDuration renders d rounded to seconds, or "now" when not positive.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	return d.Round(time.Second).String()
}

func printSessionTable(rows [][]string) error {
	data := pterm.TableData{{"Field", "Value"}}
	data = append(data, rows...)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
