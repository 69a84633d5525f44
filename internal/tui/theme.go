package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Palette colours used across the dashboard. InitializeSkin overwrites them.
var (
	ColorBlack  lipgloss.Color
	ColorBlue   lipgloss.Color
	ColorGray   lipgloss.Color
	ColorGreen  lipgloss.Color
	ColorNavy   lipgloss.Color
	ColorOrange lipgloss.Color
	ColorRed    lipgloss.Color
	ColorWhite  lipgloss.Color
	ColorYellow lipgloss.Color
)

// Skin is a named colour palette. Empty entries keep the default colour.
type Skin struct {
	Name   string `yaml:"name"`
	Colors struct {
		Black  string `yaml:"black"`
		Blue   string `yaml:"blue"`
		Gray   string `yaml:"gray"`
		Green  string `yaml:"green"`
		Navy   string `yaml:"navy"`
		Orange string `yaml:"orange"`
		Red    string `yaml:"red"`
		White  string `yaml:"white"`
		Yellow string `yaml:"yellow"`
	} `yaml:"colors"`
}

const defaultSkinName = "default"

func init() {
	applyDefaultSkin()
}

func applyDefaultSkin() {
	ColorBlack = lipgloss.Color("0")
	ColorBlue = lipgloss.Color("39")
	ColorGray = lipgloss.Color("245")
	ColorGreen = lipgloss.Color("42")
	ColorNavy = lipgloss.Color("17")
	ColorOrange = lipgloss.Color("208")
	ColorRed = lipgloss.Color("196")
	ColorWhite = lipgloss.Color("255")
	ColorYellow = lipgloss.Color("220")
}

// InitializeSkin resets the palette and applies skin name from
// <configDir>/skins/<name>.yml. The default skin needs no file. On error the
// default palette stays in place.
func InitializeSkin(name, configDir string) error {
	applyDefaultSkin()
	if name == "" || name == defaultSkinName {
		return nil
	}

	path := filepath.Join(configDir, "skins", name+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading skin %s: %w", name, err)
	}

	var skin Skin
	if err := yaml.Unmarshal(data, &skin); err != nil {
		return fmt.Errorf("parsing skin %s: %w", path, err)
	}
	skin.apply()
	return nil
}

func (s Skin) apply() {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorBlack, s.Colors.Black)
	set(&ColorBlue, s.Colors.Blue)
	set(&ColorGray, s.Colors.Gray)
	set(&ColorGreen, s.Colors.Green)
	set(&ColorNavy, s.Colors.Navy)
	set(&ColorOrange, s.Colors.Orange)
	set(&ColorRed, s.Colors.Red)
	set(&ColorWhite, s.Colors.White)
	set(&ColorYellow, s.Colors.Yellow)
}
