package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ayusman/ishaara/internal/config"
	"github.com/ayusman/ishaara/internal/gesture"
	"github.com/ayusman/ishaara/internal/store"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func openStore(cfg config.Config) (*store.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return store.New(cfg.DBPath())
}

func runPhrases(cfg config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("phrases: expected list, set or reset")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	switch args[0] {
	case "list":
		return listPhrases(st)
	case "set":
		if len(args) != 3 {
			return errors.New("usage: phrases set TAG TEXT")
		}
		tag, err := setPhrase(st, args[1], args[2])
		if err != nil {
			return err
		}
		color.Green.Printf("%s -> %q\n", tag, args[2])
	case "reset":
		if len(args) != 2 {
			return errors.New("usage: phrases reset TAG")
		}
		tag, text, err := resetPhrase(st, args[1])
		if err != nil {
			return err
		}
		color.Green.Printf("%s -> %q\n", tag, text)
	default:
		return fmt.Errorf("phrases: unknown subcommand %q", args[0])
	}

	color.Gray.Println("Restart the server to apply changes.")
	return nil
}

func listPhrases(st *store.Store) error {
	rows, err := st.Phrases().List()
	if err != nil {
		return err
	}

	defaults := gesture.DefaultPhrases()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Tag", "Text", "Default", "Updated"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, row := range rows {
		table.Append([]string{row.Tag, row.Text, defaults[gesture.Tag(row.Tag)], row.UpdatedAt.Format("2006-01-02 15:04")})
	}
	table.Render()
	return nil
}

// setPhrase validates tag and stores text for it.
func setPhrase(st *store.Store, rawTag, text string) (gesture.Tag, error) {
	tag, err := gesture.ParseTag(rawTag)
	if err != nil {
		return "", err
	}
	if tag == gesture.TagUnknown {
		return "", fmt.Errorf("%s cannot be mapped to a phrase", tag)
	}
	if text == "" {
		return "", errors.New("phrase text must not be empty")
	}
	return tag, st.Phrases().Upsert(string(tag), text)
}

// resetPhrase restores the built-in text for tag.
func resetPhrase(st *store.Store, rawTag string) (gesture.Tag, string, error) {
	tag, err := gesture.ParseTag(rawTag)
	if err != nil {
		return "", "", err
	}
	text, ok := gesture.DefaultPhrases()[tag]
	if !ok {
		return "", "", fmt.Errorf("%s has no built-in phrase", tag)
	}
	return tag, text, st.Phrases().Upsert(string(tag), text)
}

func runArtifacts(cfg config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	artifacts, err := st.Artifacts().List()
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		color.Gray.Println("No verified artifacts.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Path", "SHA-256", "Size", "Verified"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, a := range artifacts {
		table.Append([]string{a.Name, a.Path, a.SHA256[:min(12, len(a.SHA256))], fmt.Sprint(a.Size), a.VerifiedAt.Format("2006-01-02 15:04")})
	}
	table.Render()
	return nil
}
