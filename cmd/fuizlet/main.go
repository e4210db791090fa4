package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fuizlet/internal/app"
	"fuizlet/internal/config"
	"fuizlet/internal/model"
	"fuizlet/internal/store"
)

func main() {
	// Load .env if present so FUIZLET_REMOTE_* overrides apply.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// app.Close(). operation identifies the CLI command being run.
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

// parseTerms turns repeated "term=definition" flags into term pairs.
func parseTerms(raw []string) ([]model.Term, error) {
	terms := make([]model.Term, 0, len(raw))
	for _, entry := range raw {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid term %q: expected term=definition", entry)
		}
		terms = append(terms, model.Term{Term: parts[0], Definition: parts[1]})
	}
	return terms, nil
}

var rootCmd = &cobra.Command{
	Use:   "fuizlet",
	Short: "Flashcard study sets, folders and groups",
}

// config commands

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Local store: %s (%s)\n", cfg.Local.Type, cfg.Local.Path)
		fmt.Println("Set [remote] url and key (or FUIZLET_REMOTE_URL/FUIZLET_REMOTE_KEY) to enable cloud mode.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		m := &config.Manager{}
		return m.Write(os.Stdout, cfg)
	},
}

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Show which storage backend is active",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Mode")
		if err != nil {
			return err
		}
		defer a.Close()

		if a.IsCloud() {
			fmt.Println("cloud")
		} else {
			fmt.Println("local")
		}
		return nil
	},
}

// auth commands

var signupEmail, signupUsername string

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SignUp")
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		user, err := a.Store().SignUp(context.Background(), signupEmail, password, signupUsername)
		if err != nil {
			return fmt.Errorf("sign-up failed: %w", err)
		}
		fmt.Printf("Signed up as %s\n", user.DisplayName())
		return nil
	},
}

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SignIn")
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		user, err := a.Store().SignIn(context.Background(), loginEmail, password)
		if err != nil {
			if errors.Is(err, store.ErrInvalidCredentials) {
				return fmt.Errorf("invalid credentials")
			}
			return fmt.Errorf("sign-in failed: %w", err)
		}
		fmt.Printf("Signed in as %s\n", user.DisplayName())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Logout")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store().Logout(context.Background()); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("WhoAmI")
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.Store().GetCurrentUser(context.Background())
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("Not signed in")
			return nil
		}
		fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
		return nil
	},
}

// set commands

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Manage study sets",
}

var setsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List study sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetSets")
		if err != nil {
			return err
		}
		defer a.Close()

		sets, err := a.Store().GetSets(context.Background())
		if err != nil {
			return err
		}
		for _, s := range sets {
			fmt.Printf("%s\t%s\t(%d terms)\n", s.ID, s.Title, len(s.Terms))
		}
		return nil
	},
}

var setsShowCmd = &cobra.Command{
	Use:   "show <set-id>",
	Short: "Show a study set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetSetByID")
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := a.Store().GetSetByID(context.Background(), args[0])
		if err != nil {
			return err
		}
		if set == nil {
			return fmt.Errorf("set not found: %s", args[0])
		}
		fmt.Printf("%s\n%s\n", set.Title, set.Description)
		for _, t := range set.Terms {
			fmt.Printf("  %s\t%s\n", t.Term, t.Definition)
		}
		return nil
	},
}

var setTitle, setDescription string
var setTerms []string

var setsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a study set",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddSet")
		if err != nil {
			return err
		}
		defer a.Close()

		terms, err := parseTerms(setTerms)
		if err != nil {
			return err
		}

		set, err := a.Store().AddSet(context.Background(), model.NewSet{
			Title:       setTitle,
			Description: setDescription,
			Terms:       terms,
		})
		if err != nil {
			return fmt.Errorf("creating set: %w", err)
		}
		if set == nil {
			return fmt.Errorf("set was not created")
		}
		fmt.Printf("Created set %s\n", set.ID)
		return nil
	},
}

var setsUpdateCmd = &cobra.Command{
	Use:   "update <set-id>",
	Short: "Update a study set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("UpdateSet")
		if err != nil {
			return err
		}
		defer a.Close()

		var update model.SetUpdate
		if cmd.Flags().Changed("title") {
			update.Title = &setTitle
		}
		if cmd.Flags().Changed("description") {
			update.Description = &setDescription
		}
		if cmd.Flags().Changed("term") {
			terms, err := parseTerms(setTerms)
			if err != nil {
				return err
			}
			update.Terms = &terms
		}

		if err := a.Store().UpdateSet(context.Background(), args[0], update); err != nil {
			return fmt.Errorf("updating set: %w", err)
		}
		fmt.Println("Updated")
		return nil
	},
}

var setsDeleteCmd = &cobra.Command{
	Use:   "delete <set-id>",
	Short: "Delete a study set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteSet")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store().DeleteSet(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting set: %w", err)
		}
		fmt.Println("Deleted")
		return nil
	},
}

var studyCmd = &cobra.Command{
	Use:   "study <set-id>",
	Short: "Review a study set's terms in random order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Study")
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := a.Store().GetSetByID(context.Background(), args[0])
		if err != nil {
			return err
		}
		if set == nil {
			return fmt.Errorf("set not found: %s", args[0])
		}

		for i, t := range store.Shuffle(set.Terms) {
			fmt.Printf("%d. %s\n   %s\n", i+1, t.Term, t.Definition)
		}
		return nil
	},
}

// folder commands

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetFolders")
		if err != nil {
			return err
		}
		defer a.Close()

		folders, err := a.Store().GetFolders(context.Background())
		if err != nil {
			return err
		}
		for _, f := range folders {
			fmt.Printf("%s\t%s\t(%d sets)\n", f.ID, f.Name, len(f.SetIDs))
		}
		return nil
	},
}

var foldersShowCmd = &cobra.Command{
	Use:   "show <folder-id>",
	Short: "Show a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetFolderByID")
		if err != nil {
			return err
		}
		defer a.Close()

		folder, err := a.Store().GetFolderByID(context.Background(), args[0])
		if err != nil {
			return err
		}
		if folder == nil {
			return fmt.Errorf("folder not found: %s", args[0])
		}
		fmt.Printf("%s\n%s\n", folder.Name, folder.Description)
		for _, id := range folder.SetIDs {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}

var folderName, folderDescription string

var foldersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		folder, err := a.Store().AddFolder(context.Background(), model.NewFolder{
			Name:        folderName,
			Description: folderDescription,
		})
		if err != nil {
			return fmt.Errorf("creating folder: %w", err)
		}
		if folder == nil {
			return fmt.Errorf("folder was not created")
		}
		fmt.Printf("Created folder %s\n", folder.ID)
		return nil
	},
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete <folder-id>",
	Short: "Delete a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store().DeleteFolder(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting folder: %w", err)
		}
		fmt.Println("Deleted")
		return nil
	},
}

var foldersAddSetCmd = &cobra.Command{
	Use:   "add-set <folder-id> <set-id>",
	Short: "Add a set to a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddSetToFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Store().AddSetToFolder(context.Background(), args[0], args[1])
	},
}

var foldersRemoveSetCmd = &cobra.Command{
	Use:   "remove-set <folder-id> <set-id>",
	Short: "Remove a set from a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RemoveSetFromFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Store().RemoveSetFromFolder(context.Background(), args[0], args[1])
	},
}

// group commands

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetGroups")
		if err != nil {
			return err
		}
		defer a.Close()

		groups, err := a.Store().GetGroups(context.Background())
		if err != nil {
			return err
		}
		for _, g := range groups {
			fmt.Printf("%s\t%s\t(%d sets, %d members)\n", g.ID, g.Name, len(g.SetIDs), len(g.Members))
		}
		return nil
	},
}

var groupsShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetGroupByID")
		if err != nil {
			return err
		}
		defer a.Close()

		group, err := a.Store().GetGroupByID(context.Background(), args[0])
		if err != nil {
			return err
		}
		if group == nil {
			return fmt.Errorf("group not found: %s", args[0])
		}
		fmt.Printf("%s\n%s\n", group.Name, group.Description)
		if group.School != "" {
			fmt.Printf("School: %s\n", group.School)
		}
		fmt.Printf("Members: %s\n", strings.Join(group.Members, ", "))
		for _, id := range group.SetIDs {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}

var groupName, groupDescription, groupSchool string

var groupsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddGroup")
		if err != nil {
			return err
		}
		defer a.Close()

		group, err := a.Store().AddGroup(context.Background(), model.NewGroup{
			Name:        groupName,
			Description: groupDescription,
			School:      groupSchool,
		})
		if err != nil {
			if errors.Is(err, store.ErrCreatorMembership) && group != nil {
				fmt.Printf("Created group %s, but your membership could not be recorded\n", group.ID)
				return nil
			}
			return fmt.Errorf("creating group: %w", err)
		}
		if group == nil {
			return fmt.Errorf("group was not created")
		}
		fmt.Printf("Created group %s\n", group.ID)
		return nil
	},
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteGroup")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store().DeleteGroup(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting group: %w", err)
		}
		fmt.Println("Deleted")
		return nil
	},
}

var groupsAddSetCmd = &cobra.Command{
	Use:   "add-set <group-id> <set-id>",
	Short: "Add a set to a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddSetToGroup")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Store().AddSetToGroup(context.Background(), args[0], args[1])
	},
}

var groupsAddMemberCmd = &cobra.Command{
	Use:   "add-member <group-id> <username>",
	Short: "Add a member to a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddMemberToGroup")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Store().AddMemberToGroup(context.Background(), args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configListCmd)

	signupCmd.Flags().StringVar(&signupEmail, "email", "", "email address")
	signupCmd.Flags().StringVar(&signupUsername, "username", "", "display name")
	signupCmd.MarkFlagRequired("email")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address")
	loginCmd.MarkFlagRequired("email")

	setsCreateCmd.Flags().StringVar(&setTitle, "title", "", "set title")
	setsCreateCmd.Flags().StringVar(&setDescription, "description", "", "set description")
	setsCreateCmd.Flags().StringArrayVar(&setTerms, "term", nil, "term=definition (repeatable)")
	setsCreateCmd.MarkFlagRequired("title")
	setsUpdateCmd.Flags().StringVar(&setTitle, "title", "", "set title")
	setsUpdateCmd.Flags().StringVar(&setDescription, "description", "", "set description")
	setsUpdateCmd.Flags().StringArrayVar(&setTerms, "term", nil, "term=definition (repeatable)")
	setsCmd.AddCommand(setsListCmd, setsShowCmd, setsCreateCmd, setsUpdateCmd, setsDeleteCmd)

	foldersCreateCmd.Flags().StringVar(&folderName, "name", "", "folder name")
	foldersCreateCmd.Flags().StringVar(&folderDescription, "description", "", "folder description")
	foldersCreateCmd.MarkFlagRequired("name")
	foldersCmd.AddCommand(foldersListCmd, foldersShowCmd, foldersCreateCmd, foldersDeleteCmd,
		foldersAddSetCmd, foldersRemoveSetCmd)

	groupsCreateCmd.Flags().StringVar(&groupName, "name", "", "group name")
	groupsCreateCmd.Flags().StringVar(&groupDescription, "description", "", "group description")
	groupsCreateCmd.Flags().StringVar(&groupSchool, "school", "", "school name")
	groupsCreateCmd.MarkFlagRequired("name")
	groupsCmd.AddCommand(groupsListCmd, groupsShowCmd, groupsCreateCmd, groupsDeleteCmd,
		groupsAddSetCmd, groupsAddMemberCmd)

	rootCmd.AddCommand(configCmd, modeCmd, signupCmd, loginCmd, logoutCmd, whoamiCmd,
		setsCmd, studyCmd, foldersCmd, groupsCmd)
}
