package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/starford/vibecard/internal"
	"github.com/starford/vibecard/internal/cardservice"
	"github.com/starford/vibecard/internal/models"
)

func cardFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "vibe", Usage: "love, propose, sorry, friend or birthday", Value: "love"},
		&cli.StringFlag{Name: "to", Usage: "Recipient name"},
		&cli.StringFlag{Name: "from", Usage: "Sender name"},
		&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Card message"},
		&cli.StringFlag{Name: "photo", Usage: "External photo URL"},
		&cli.BoolFlag{Name: "json", Usage: "Print the whole result as JSON instead of the link"},
	}
}

// cliService builds a card service that logs to stderr so stdout stays
// pipeable.
func cliService(ctx context.Context, cmd *cli.Command) (*cardservice.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	svc, _, err := internal.NewCardService(ctx, cfg, internal.NewLogger(cfg, os.Stderr))
	return svc, err
}

func printResult(cmd *cli.Command, res *cardservice.Result) error {
	w := cmd.Root().Writer
	if !cmd.Bool("json") {
		_, err := fmt.Fprintln(w, res.URL)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func composeCommand() *cli.Command {
	flags := append(cardFlags(), &cli.StringFlag{
		Name:  "photo-file",
		Usage: "Image to embed in the card; it never travels in the link",
	})
	return &cli.Command{
		Name:  "compose",
		Usage: "Compose a card, generating the message when none is given, and print its link",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := cliService(ctx, cmd)
			if err != nil {
				return err
			}

			in := cardservice.ComposeInput{
				Vibe:          cmd.String("vibe"),
				RecipientName: cmd.String("to"),
				SenderName:    cmd.String("from"),
				Message:       cmd.String("message"),
				PhotoURL:      cmd.String("photo"),
			}
			if path := cmd.String("photo-file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read photo: %w", err)
				}
				in.PhotoData = data
				in.PhotoFilename = filepath.Base(path)
			}

			res, err := svc.Compose(ctx, in)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "Print the link for a finished card without generating anything",
		Flags: cardFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := cliService(ctx, cmd)
			if err != nil {
				return err
			}
			vibe, err := models.ParseVibe(cmd.String("vibe"))
			if err != nil {
				return err
			}
			res, err := svc.Encode(models.Card{
				Vibe:          vibe,
				RecipientName: cmd.String("to"),
				SenderName:    cmd.String("from"),
				Message:       cmd.String("message"),
				Photo:         models.Photo(cmd.String("photo")),
			})
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		},
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Print the card carried by a share link or query string",
		ArgsUsage: "<link>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			link := cmd.Args().First()
			if link == "" {
				return errors.New("decode: a link or query string is required")
			}
			svc, err := cliService(ctx, cmd)
			if err != nil {
				return err
			}
			res, err := svc.Open(link)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.Root().Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Card)
		},
	}
}
