package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"essay_editor/config"
	"essay_editor/document"
	"essay_editor/editor"
	"essay_editor/essay"
	"essay_editor/server"
	"essay_editor/session"
)

var verbose bool

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", "config/config.json", "path to config.json")
	filePath := flag.String("file", "", "path to essay file (.txt, .docx, .pdf)")
	mock := flag.Bool("mock", false, "use the offline mock model (no API key needed)")
	serve := flag.Bool("serve", false, "start web review server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	flag.BoolVar(&verbose, "v", false, "enable info logs")
	flag.Parse()

	var cfg config.Config
	if !*mock {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	llm, err := buildLLM(cfg, *mock)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	agent, err := editor.NewAgent(llm)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Web review mode
	if *serve {
		srv, err := server.New(agent)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		if listen == "" {
			listen = ":8080"
		}
		log.Printf("Starting web review server on %s", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// Interactive mode
	fmt.Println("=== AI Essay Editor ===")
	path := *filePath
	if path == "" {
		path = promptForPath()
		if path == "" {
			fmt.Fprintln(os.Stderr, "no essay file given")
			os.Exit(1)
		}
	}

	text, err := document.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if verbose {
		log.Printf("[cli] loaded essay file=%s chars=%d", path, len(text))
	}

	es := essay.New(path, text)
	sess := session.New(es, agent, os.Stdin, os.Stdout)
	if err := sess.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if verbose {
		log.Printf("[cli] session done edits=%d changed=%v", len(sess.History), es.HasChanges)
	}
}

func promptForPath() string {
	fmt.Print("Enter the path to your essay file (.txt, .docx, .pdf): ")
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return ""
	}
	return strings.TrimSpace(sc.Text())
}

func buildLLM(cfg config.Config, mock bool) (editor.LLMClient, error) {
	if mock {
		return editor.MockLLM{}, nil
	}
	if cfg.LLM == nil {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model in config (or run with --mock)")
	}
	settings := &editor.LLMSettings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.ResolveAPIKey(),
		BaseURL:  cfg.LLM.BaseURL,
	}
	switch cfg.LLM.Provider {
	case "openai":
		return editor.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible API and needs an explicit base_url.
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return editor.NewOpenAILLMFromConfig(settings)
	case "gemini":
		return editor.NewGeminiLLMFromConfig(settings)
	case "anthropic":
		return editor.NewAnthropicLLMFromConfig(settings)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
