package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListAdapters prints the adapters exposed by the selected backend.
func ListAdapters(ctx *cli.Context) error {
	setupLogging(ctx)

	instance, adapters, err := enumerateAdapters(ctx.String("backend"))
	if err != nil {
		return err
	}
	defer instance.Destroy()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Name", "Type"})
	for i, a := range adapters {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			a.Info.Name,
			fmt.Sprintf("%v", a.Info.DeviceType),
		})
	}
	table.Render()
	return nil
}
