package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var initPath string

// starterSet is the shape of the file written by 'repat init'.
type starterSet struct {
	Name     string            `yaml:"name"`
	Patterns map[string]string `yaml:"patterns"`
}

// initCmd: repat init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a starter pattern-set file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initPatternFile(initPath); err != nil {
			logger.Error("Error initializing pattern file", zap.Error(err))
			return
		}
		fmt.Printf("Pattern-set file created: %s\n", initPath)
	},
}

func init() {
	initCmd.Flags().StringVarP(&initPath, "output", "o", ".repat.yaml", "Where to write the starter file")
}

func initPatternFile(path string) error {
	starter := starterSet{
		Name: "example",
		Patterns: map[string]string{
			"word": "[A-Za-z_]+",
			"pair": `(?<key>(?&word))=(?<value>\S*)`,
		},
	}
	d, err := yaml.Marshal(starter)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	if err != nil {
		return err
	}

	return nil
}
