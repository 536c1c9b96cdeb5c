// internal/cli/client.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"game-catalog-backend/internal/client"
	"game-catalog-backend/internal/models"
)

const defaultAPIURL = "http://localhost:5000"

type clientFlags struct {
	apiURL      string
	sessionPath string
}

// open клиент с сессией из файла; сессия восстанавливается сразу
func (f *clientFlags) open() (*client.Client, error) {
	path := f.sessionPath
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}

	session := client.NewSession(client.NewFileStorage(path))
	if err := session.Restore(); err != nil {
		return nil, err
	}
	return client.NewClient(f.apiURL, session), nil
}

func addClientCommands(root *cobra.Command) {
	f := &clientFlags{}
	apiURL := os.Getenv("GAME_CATALOG_API")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&f.apiURL, "api", apiURL, "API base URL (env GAME_CATALOG_API)")
	root.PersistentFlags().StringVar(&f.sessionPath, "session", "", "session file (default in user config dir)")

	root.AddCommand(
		newLoginCmd(f),
		newLogoutCmd(f),
		newRegisterCmd(f),
		newWhoamiCmd(f),
		newOpenCmd(f),
		newGamesCmd(f),
		newPageCmd(f),
	)
}

func newLoginCmd(f *clientFlags) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.open()
			if err != nil {
				return err
			}
			u, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", u.Username, roleName(u.Role))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and clear the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.open()
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newRegisterCmd(f *clientFlags) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a regular account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.open()
			if err != nil {
				return err
			}
			id, err := c.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered user %d, please log in\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "letters only, at least 2")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "3-8 letters and digits")
	return cmd
}

func newWhoamiCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.open()
			if err != nil {
				return err
			}
			if !c.Session().Snapshot().Authenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			u, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> id=%d role=%s\n", u.Username, u.Email, u.ID, roleName(u.Role))
			return nil
		},
	}
}

// newOpenCmd проверяет, пустит ли охрана маршрутов текущую сессию на страницу
func newOpenCmd(f *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open PATH",
		Short: "Check whether the current session may open a front-end page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.open()
			if err != nil {
				return err
			}
			d := client.NewGuard().Check(args[0], c.Session().Snapshot())
			if d.Allow {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: allowed\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: redirect to %s\n", args[0], d.Redirect)
			}
			return nil
		},
	}
}

func newGamesCmd(f *clientFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "games", Short: "Browse and manage games"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.open()
			if err != nil {
				return err
			}
			games, err := c.Games(cmd.Context())
			if err != nil {
				return err
			}
			return printGames(cmd.OutOrStdout(), games)
		},
	})

	var (
		in        models.GameInput
		imagePath string
		ageRating int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Upload a game (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.open()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("age-rating") {
				in.AgeRating = models.Rating(ageRating)
			}
			if in.Image, err = os.ReadFile(imagePath); err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			resp, err := c.CreateGame(cmd.Context(), in, filepath.Base(imagePath))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", resp.Message, resp.GameID)
			return nil
		},
	}
	add.Flags().StringVar(&in.Title, "title", "", "game title")
	add.Flags().StringVar(&in.Content, "content", "", "description")
	add.Flags().IntVar(&ageRating, "age-rating", 0, "0-18")
	add.Flags().StringVar(&imagePath, "image", "", "JPEG, PNG or GIF up to 1MB")
	_ = add.MarkFlagRequired("image")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a game (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			c, err := f.open()
			if err != nil {
				return err
			}
			if err := c.DeleteGame(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	})

	return cmd
}

func newPageCmd(f *clientFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "page", Short: "Read and edit page sections"}

	cmd.AddCommand(&cobra.Command{
		Use:   "get SECTION",
		Short: "Print section content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.open()
			if err != nil {
				return err
			}
			content, err := c.PageContent(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), content)
			return nil
		},
	})

	var content, file string
	set := &cobra.Command{
		Use:   "set SECTION",
		Short: "Replace section content (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				content = string(data)
			} else if !cmd.Flags().Changed("content") {
				return errors.New("either --content or --file is required")
			}
			c, err := f.open()
			if err != nil {
				return err
			}
			if err := c.SetPageContent(cmd.Context(), args[0], content); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	set.Flags().StringVar(&content, "content", "", "new content (HTML allowed)")
	set.Flags().StringVar(&file, "file", "", "read content from file")
	cmd.AddCommand(set)

	return cmd
}

func printGames(w io.Writer, games []models.Game) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAGE\tIMAGE")
	for _, g := range games {
		fmt.Fprintf(tw, "%d\t%s\t%d+\t%s %dB\n", g.ID, g.Title, g.AgeRating, g.ImageType, len(g.Image))
	}
	return tw.Flush()
}

func roleName(role int) string {
	if role == models.RoleAdmin {
		return "admin"
	}
	return "user"
}
