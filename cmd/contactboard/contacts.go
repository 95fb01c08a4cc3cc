package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"contactboard/internal/domain"
)

// contactFlags binds one flag per contact field.
type contactFlags struct {
	fields domain.ContactFields
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fields.Name, "name", "", "full name")
	cmd.Flags().StringVar(&f.fields.Position, "position", "", "job title, e.g. Software Engineer")
	cmd.Flags().StringVar(&f.fields.Company, "company", "", "company name")
	cmd.Flags().StringVar(&f.fields.Location, "location", "", "e.g. San Francisco, USA")
	cmd.Flags().StringVar(&f.fields.Interests, "interests", "", "optional free text")
}

// patch includes only the flags the user actually set.
func (f *contactFlags) patch(cmd *cobra.Command) domain.ContactPatch {
	var p domain.ContactPatch
	set := func(flag string, dst **string, v *string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("name", &p.Name, &f.fields.Name)
	set("position", &p.Position, &f.fields.Position)
	set("company", &p.Company, &f.fields.Company)
	set("location", &p.Location, &f.fields.Location)
	set("interests", &p.Interests, &f.fields.Interests)
	return p
}

func newContactsCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the contacts of a board",
	}

	var addFlags contactFlags
	add := &cobra.Command{
		Use:   "add <board id>",
		Short: "Add a contact to a board",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			fields := addFlags.fields.Normalize()
			if err := fields.Validate(); err != nil {
				return err
			}
			contact, err := a.repo.AddContact(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id: %s)\n", contact.Name, contact.ID)
			return nil
		}),
	}
	addFlags.register(add)

	var updateFlags contactFlags
	update := &cobra.Command{
		Use:   "update <board id> <contact id>",
		Short: "Change some fields of a contact",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			patch := updateFlags.patch(cmd).Normalize()
			if patch.Empty() {
				return fmt.Errorf("nothing to update: pass at least one of --name, --position, --company, --location, --interests")
			}
			if err := patch.Validate(); err != nil {
				return err
			}
			contact, err := a.repo.UpdateContact(cmd.Context(), args[0], args[1], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (id: %s)\n", contact.Name, contact.ID)
			return nil
		}),
	}
	updateFlags.register(update)

	del := &cobra.Command{
		Use:   "delete <board id> <contact id>",
		Short: "Remove a contact from a board",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.repo.DeleteContact(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted contact %s from board %s\n", args[1], args[0])
			return nil
		}),
	}

	cmd.AddCommand(add, update, del)
	return cmd
}
