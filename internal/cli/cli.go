// Package cli implements canchasctl, the provisioning tool for fields and
// their owner accounts. The HTTP API never creates fields; this is where they
// come from.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"canchas-backend/config"
	"canchas-backend/internal/auth"
	"canchas-backend/internal/calendar"
	"canchas-backend/internal/db"
	"canchas-backend/internal/model"
	"canchas-backend/internal/store"
)

// Opener connects to the database named by the configuration file. The
// returned function releases the connection.
type Opener func(configPath string) (*gorm.DB, func() error, error)

// OpenFromConfig is the Opener used outside of tests.
func OpenFromConfig(configPath string) (*gorm.DB, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration from %s: %w", configPath, err)
	}
	loc, err := calendar.ParseOffset(cfg.Slots.UTCOffset)
	if err != nil {
		return nil, nil, err
	}
	gdb, err := db.Open(&cfg.Database, loc)
	if err != nil {
		return nil, nil, err
	}
	return gdb, func() error { return db.Close(gdb) }, nil
}

// NewRootCommand builds the canchasctl command tree.
func NewRootCommand(out io.Writer, open Opener) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "canchasctl",
		Short:         "Administración de canchas y cuentas de dueños",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "./config/config.yaml"
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultPath, "Path to the configuration file")

	withDB := func(fn func(gdb *gorm.DB) error) error {
		gdb, closeFn, err := open(configPath)
		if err != nil {
			return err
		}
		defer closeFn()
		return fn(gdb)
	}

	root.AddCommand(
		newMigrateCommand(withDB),
		newFieldCommand(out, withDB),
	)
	return root
}

func newMigrateCommand(withDB func(func(*gorm.DB) error) error) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(db.Migrate)
		},
	}
}

func newFieldCommand(out io.Writer, withDB func(func(*gorm.DB) error) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cancha",
		Aliases: []string{"field"},
		Short:   "Manage fields",
	}
	cmd.AddCommand(
		newFieldCreateCommand(out, withDB),
		newFieldListCommand(out, withDB),
		newFieldPasswordCommand(out, withDB),
	)
	return cmd
}

func newFieldCreateCommand(out io.Writer, withDB func(func(*gorm.DB) error) error) *cobra.Command {
	var (
		field     model.Field
		password  string
		secondFee float64
	)

	cmd := &cobra.Command{
		Use:   "crear",
		Short: "Create a field and its owner account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(field.Name) == "" || strings.TrimSpace(field.Username) == "" {
				return errors.New("--nombre and --usuario are required")
			}
			if len(password) < auth.MinPasswordLength {
				return fmt.Errorf("--contrasena must have at least %d characters", auth.MinPasswordLength)
			}
			if cmd.Flags().Changed("precio2") {
				field.SecondRate = &secondFee
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			field.PasswordHash = hash

			return withDB(func(gdb *gorm.DB) error {
				if err := store.NewGormStore(gdb).CreateField(cmd.Context(), &field); err != nil {
					return err
				}
				fmt.Fprintf(out, "cancha %d creada (usuario %s)\n", field.ID, field.Username)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&field.Name, "nombre", "", "Field name")
	f.StringVar(&field.Username, "usuario", "", "Owner username")
	f.StringVar(&password, "contrasena", "", "Owner password")
	f.StringVar(&field.Phone, "telefono", "", "Contact phone, receives the booking messages")
	f.StringVar(&field.Address, "direccion", "", "Street address")
	f.StringVar(&field.Locality, "localidad", "", "Locality")
	f.StringVar(&field.Surface, "tipo", "", "Field type or surface")
	f.IntVar(&field.Capacity, "capacidad", 0, "Players per side")
	f.Float64Var(&field.Rate, "precio", 0, "Rate per slot")
	f.Float64Var(&secondFee, "precio2", 0, "Second rate tier (optional)")
	f.StringVar(&field.Logo, "logo", "", "Logo image URL")
	f.StringVar(&field.Cover, "portada", "", "Cover image URL")
	f.StringVar(&field.OwnerFirstName, "propietario-nombre", "", "Owner first name")
	f.StringVar(&field.OwnerLastName, "propietario-apellido", "", "Owner last name")
	f.StringVar(&field.Email, "email", "", "Owner email")
	return cmd
}

func newFieldListCommand(out io.Writer, withDB func(func(*gorm.DB) error) error) *cobra.Command {
	return &cobra.Command{
		Use:   "listar",
		Short: "List fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(gdb *gorm.DB) error {
				fields, err := store.NewGormStore(gdb).ListFields(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNOMBRE\tUSUARIO\tTELEFONO\tLOCALIDAD")
				for _, f := range fields {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.Name, f.Username, f.Phone, f.Locality)
				}
				return tw.Flush()
			})
		},
	}
}

func newFieldPasswordCommand(out io.Writer, withDB func(func(*gorm.DB) error) error) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "contrasena",
		Short: "Reset the password of an owner account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < auth.MinPasswordLength {
				return fmt.Errorf("--contrasena must have at least %d characters", auth.MinPasswordLength)
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			return withDB(func(gdb *gorm.DB) error {
				s := store.NewGormStore(gdb)
				field, err := s.FieldByUsername(cmd.Context(), username)
				if err != nil {
					return err
				}
				if err := s.UpdateCredentials(cmd.Context(), field.ID, field.Username, hash); err != nil {
					return err
				}
				fmt.Fprintf(out, "contraseña actualizada para %s\n", field.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "usuario", "", "Owner username")
	cmd.Flags().StringVar(&password, "contrasena", "", "New password")
	_ = cmd.MarkFlagRequired("usuario")
	return cmd
}
