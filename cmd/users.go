// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"t3compat/internal/frontenduser"
)

var (
	usersTable string
	usersJSON  bool

	newUser struct {
		name, address, zip, city, country string
		www, company, telephone, fax     string
	}
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage frontend users",
}

func withUsers(ctx context.Context, fn func(r *frontenduser.Repository) error) error {
	e, closeConn, err := openExecutor(ctx)
	if err != nil {
		return err
	}
	defer closeConn()
	return fn(frontenduser.NewRepository(e, usersTable))
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
}

func viewOf(u *frontenduser.User) userView {
	return userView{
		ID:       u.ID.String(),
		Username: u.Username(),
		Name:     u.Name(),
		Company:  u.Company,
		City:     u.City,
		Country:  u.Country,
	}
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all frontend users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(r *frontenduser.Repository) error {
			users, err := r.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			views := make([]userView, len(users))
			for i, u := range users {
				views[i] = viewOf(u)
			}
			if usersJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}
			if len(views) == 0 {
				pterm.Info.Println("No frontend users")
				return nil
			}
			data := pterm.TableData{{"Username", "Name", "Company", "City", "Country"}}
			for _, v := range views {
				data = append(data, []string{v.Username, v.Name, v.Company, v.City, v.Country})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		})
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Show a frontend user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(r *frontenduser.Repository) error {
			u, err := r.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if usersJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(viewOf(u))
			}
			return printKeyValues([][2]string{
				{"Identifier", u.ID.String()},
				{"Username", u.Username()},
				{"Title", u.Title()},
				{"Name", u.Name()},
				{"Address", u.Address},
				{"City", u.Zip + " " + u.City},
				{"Country", u.Country},
				{"Company", u.Company},
				{"WWW", u.WWW},
				{"Telephone", u.Telephone},
				{"Fax", u.Fax},
			})
		})
	},
}

var usersCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the frontend users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(r *frontenduser.Repository) error {
			n, err := r.CountAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		})
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a frontend user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := frontenduser.FromAccount(&frontenduser.Account{
			Identifier: args[0],
			Party:      &frontenduser.Person{},
		})
		if newUser.name != "" {
			if err := u.SetName(newUser.name); err != nil {
				return err
			}
		}
		u.Address = newUser.address
		u.Zip = newUser.zip
		u.City = newUser.city
		u.Country = newUser.country
		u.WWW = newUser.www
		u.Company = newUser.company
		u.Telephone = newUser.telephone
		u.Fax = newUser.fax

		return withUsers(cmd.Context(), func(r *frontenduser.Repository) error {
			if err := r.Add(cmd.Context(), u); err != nil {
				return err
			}
			pterm.Success.Printfln("Added frontend user %s (%s)", u.Username(), u.ID)
			return nil
		})
	},
}

var usersRemoveCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Remove a frontend user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(r *frontenduser.Repository) error {
			u, err := r.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := r.Remove(cmd.Context(), u); err != nil {
				return err
			}
			pterm.Success.Printfln("Removed frontend user %s", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.PersistentFlags().StringVar(&usersTable, "table", frontenduser.DefaultTable, "Frontend user table")
	usersListCmd.Flags().BoolVar(&usersJSON, "json", false, "Print as JSON")
	usersShowCmd.Flags().BoolVar(&usersJSON, "json", false, "Print as JSON")

	f := usersAddCmd.Flags()
	f.StringVar(&newUser.name, "name", "", `Full name, e.g. "Dr. Jane Doe"`)
	f.StringVar(&newUser.address, "address", "", "Street address")
	f.StringVar(&newUser.zip, "zip", "", "Postal code")
	f.StringVar(&newUser.city, "city", "", "City")
	f.StringVar(&newUser.country, "country", "", "Country")
	f.StringVar(&newUser.www, "www", "", "Homepage")
	f.StringVar(&newUser.company, "company", "", "Company")
	f.StringVar(&newUser.telephone, "telephone", "", "Telephone")
	f.StringVar(&newUser.fax, "fax", "", "Fax")

	usersCmd.AddCommand(usersListCmd, usersShowCmd, usersCountCmd, usersAddCmd, usersRemoveCmd)
}
