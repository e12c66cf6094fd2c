package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"shopchat-client/internal/attachment"
	"shopchat-client/internal/config"
	"shopchat-client/internal/dictation"
	"shopchat-client/internal/exchange"
	"shopchat-client/internal/linkify"
	"shopchat-client/internal/present"
	"shopchat-client/internal/session"
	"shopchat-client/internal/transcript"
)

const welcomeMessage = "Welcome! I'm your shopping assistant. What can I help you find today?"

// app owns the session token and the single pending-attachment slot, and
// wires every component to the terminal.
type app struct {
	cfg        config.Config
	exchange   *exchange.Client
	attachment *attachment.Controller
	dictation  *dictation.Controller
	audio      *fileSourceSlot
	linkifier  *linkify.Linkifier
	presenter  *present.Presenter
	transcript *transcript.Transcript
	draft      strings.Builder
}

// fileSourceSlot lets one controller capture from whichever audio file the
// next /dictate names.
type fileSourceSlot struct {
	mu   sync.Mutex
	path string
}

func (f *fileSourceSlot) set(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.path = path
}

func (f *fileSourceSlot) Record(ctx context.Context) (io.ReadCloser, string, error) {
	f.mu.Lock()
	path := f.path
	f.mu.Unlock()
	return dictation.FileSource{Path: path}.Record(ctx)
}

func main() {
	cfg := config.Load()

	vocab, err := linkify.LoadVocabulary(cfg.LinkRulesFile)
	if err != nil {
		log.Fatalf("failed to load link rules: %v", err)
	}

	id := session.New()
	a := &app{
		cfg: cfg,
		exchange: exchange.NewClient(cfg.APIBase, id.Token(), cfg.APIToken,
			time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, terminalIndicator{}),
		attachment: attachment.NewController(),
		linkifier:  linkify.NewDefault(vocab, cfg.CatalogSearchURL),
		presenter:  present.New(cfg.PlaceholderImageURL),
		transcript: transcript.New(cfg.HistoryLimit),
	}
	a.audio = &fileSourceSlot{}
	a.dictation = dictation.NewController(a.audio, a.dictationTranscriber(), a.dictationSink(), notice)

	a.transcript.Append(transcript.Message{Role: transcript.RoleBot, Text: welcomeMessage})
	fmt.Println(welcomeMessage)
	fmt.Println(`Commands: /attach <file>, /clear, /dictate <audio file>, /reset, /quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" && a.draft.Len() == 0 {
			continue
		}
		if a.handleCommand(line) {
			continue
		}
		a.submit(line)
	}
}

// handleCommand reports whether the line was a slash command.
func (a *app) handleCommand(line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "/attach":
		blob, err := os.ReadFile(arg)
		if err != nil {
			notice(fmt.Sprintf("Could not read %s: %v", arg, err))
			return true
		}
		att, err := a.attachment.Stage(arg, "", blob)
		if err != nil {
			notice("Only image files can be attached.")
			return true
		}
		fmt.Printf("Attached %s (%s, %d bytes)\n", att.Name, att.MIME, len(att.Blob))
	case "/clear":
		a.attachment.Clear()
		fmt.Println("Attachment cleared.")
	case "/dictate":
		a.startDictation(arg)
	case "/reset":
		a.transcript.Reset()
		a.attachment.Clear()
		fmt.Println("Conversation reset.")
	case "/quit", "/exit":
		os.Exit(0)
	default:
		return false
	}
	return true
}

func (a *app) startDictation(path string) {
	if path == "" {
		notice("Usage: /dictate <audio file>")
		return
	}
	a.audio.set(path)
	if err := a.dictation.Start(context.Background()); err != nil {
		return
	}
	// Final-result-only: wait for the single transcript or an error.
	for a.dictation.State() == dictation.Listening {
		time.Sleep(50 * time.Millisecond)
	}
}

func (a *app) dictationTranscriber() dictation.Transcriber {
	var trans dictation.Transcriber
	if w := dictation.NewWhisperTranscriber(a.cfg.OpenAIAPIKey, a.cfg.STTModel); w != nil {
		trans = w
	}
	return trans
}

func (a *app) dictationSink() func(string) {
	return func(text string) {
		a.draft.WriteString(text)
		fmt.Printf("(dictated) %s\n", text)
	}
}

// submit sends the draft. A staged attachment always takes precedence over
// a plain text send.
func (a *app) submit(typed string) {
	text := strings.TrimSpace(a.draft.String() + typed)
	a.draft.Reset()

	ctx := context.Background()
	att, staged := a.attachment.Current()

	userMsg := transcript.Message{Role: transcript.RoleUser, Text: text}
	if staged {
		userMsg.AttachmentPreview = att.PreviewDataURL
	}
	a.transcript.Append(userMsg)

	var reply *replyResult
	if staged {
		r, err := a.exchange.SendWithAttachment(ctx, text, att)
		reply = a.settle(r, err)
		if err == nil {
			a.attachment.Clear()
		}
	} else {
		r, err := a.exchange.SendText(ctx, text)
		reply = a.settle(r, err)
	}

	a.transcript.Append(transcript.Message{Role: transcript.RoleBot, Text: reply.text})
	fmt.Println(reply.text)
	for _, card := range reply.cards {
		printCard(card)
	}
}
