package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ben-z/rosbags/translate"
	"github.com/ben-z/rosbags/typestore"
)

var (
	convertPkg       string
	convertName      string
	convertFormat    string
	convertFrom      string
	convertTo        string
	convertDstPreset string
)

var convertCmd = &cobra.Command{
	Use:   "convert <definition-file> <payload-file>",
	Short: "translate a wire1 or CDR payload into the other representation",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		defText, err := os.ReadFile(args[0])
		checkErr(err)
		payload, err := os.ReadFile(args[1])
		checkErr(err)

		format, err := parseFormat(convertFormat)
		checkErr(err)

		dstPreset := convertDstPreset
		if dstPreset == "" {
			dstPreset = preset
		}

		srcStore, err := typestore.New(preset)
		checkErr(err)
		dstStore, err := typestore.New(dstPreset)
		checkErr(err)

		ctx := context.Background()
		srcDesc, err := srcStore.RegisterText(ctx, convertPkg, convertName, defText, format)
		checkErr(err)
		dstDesc, err := dstStore.RegisterText(ctx, convertPkg, convertName, defText, format)
		checkErr(err)
		if srcDesc.Name != dstDesc.Name {
			bailf("internal error: source and destination registered under different names")
		}

		var out []byte
		switch {
		case convertFrom == "wire1" && convertTo == "cdr":
			out, err = translate.ToCDR(payload, srcDesc.Name, srcStore, dstStore)
		case convertFrom == "cdr" && convertTo == "wire1":
			out, err = translate.ToWire1(payload, srcDesc.Name, srcStore, dstStore)
		default:
			err = fmt.Errorf("unsupported conversion %q -> %q (expected wire1<->cdr)", convertFrom, convertTo)
		}
		checkErr(err)

		_, err = os.Stdout.Write(out)
		checkErr(err)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertPkg, "pkg", "", "", "package the definition belongs to")
	convertCmd.Flags().StringVarP(&convertName, "name", "", "", "message name within the package")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "", "msg", `definition syntax: "msg" or "idl"`)
	convertCmd.Flags().StringVarP(&convertFrom, "from", "", "wire1", `source wire format: "wire1" or "cdr"`)
	convertCmd.Flags().StringVarP(&convertTo, "to", "", "cdr", `destination wire format: "wire1" or "cdr"`)
	convertCmd.Flags().StringVarP(&convertDstPreset, "dst-preset", "", "",
		`built-in catalog to seed the destination store with (defaults to --preset)`)
	_ = convertCmd.MarkFlagRequired("pkg")
	_ = convertCmd.MarkFlagRequired("name")
}
