package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ben-z/rosbags/typestore"
)

var (
	describePkg    string
	describeName   string
	describeFormat string
)

var describeCmd = &cobra.Command{
	Use:   "describe <definition-file>",
	Short: "register a .msg or .idl definition and print its hashes and re-emitted text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		checkErr(err)

		store, err := typestore.New(preset)
		checkErr(err)

		format, err := parseFormat(describeFormat)
		checkErr(err)

		desc, err := store.RegisterText(context.Background(), describePkg, describeName, data, format)
		checkErr(err)

		md5sum, err := store.MD5(desc.Name)
		checkErr(err)
		rihs, err := store.RIHS01(desc.Name)
		checkErr(err)
		text, err := store.EmitMsg(desc.Name)
		checkErr(err)

		fmt.Println(color.CyanString(desc.Name))
		fmt.Printf("  md5:    %s\n", color.GreenString(md5sum))
		fmt.Printf("  rihs01: %s\n", color.GreenString(rihs))
		fmt.Println(color.CyanString("definition:"))
		fmt.Println(text)
	},
}

func parseFormat(s string) (typestore.Format, error) {
	switch s {
	case "msg":
		return typestore.FormatMSG, nil
	case "idl":
		return typestore.FormatIDL, nil
	default:
		return 0, fmt.Errorf("unknown format %q, expected msg or idl", s)
	}
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&describePkg, "pkg", "", "", "package the definition belongs to")
	describeCmd.Flags().StringVarP(&describeName, "name", "", "", "message name within the package")
	describeCmd.Flags().StringVarP(&describeFormat, "format", "", "msg", `definition syntax: "msg" or "idl"`)
	_ = describeCmd.MarkFlagRequired("pkg")
	_ = describeCmd.MarkFlagRequired("name")
}
