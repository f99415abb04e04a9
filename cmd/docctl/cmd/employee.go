package cmd

import (
	"fmt"

	"docportal/internal/dto"

	"github.com/spf13/cobra"
)

var employeeCmd = &cobra.Command{
	Use:   "employees",
	Short: "List active employees that documents can be assigned to",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := portal.DocService.ListEmployees(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(dto.NewUserList(users))
		}
		fmt.Println(renderUserTable(users))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(employeeCmd)
}
