package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

// maxImageBytes caps attached images; the whole journal is rewritten on
// every change.
const maxImageBytes = 20 << 20

// imageCmd represents the image command
var imageCmd = &cobra.Command{
	Use:   "image <entry-id> [file]",
	Short: "Attach, replace, clear or extract an entry's image",
	Long: `Manage the image attached to an entry.

<entry-id> is the full entry id or any unique prefix of it, as shown by
'lookback show'.

Examples:
  lookback image 9b1c2d3e photo.jpg            Attach or replace the image
  lookback image 9b1c2d3e --clear              Remove the image
  lookback image 9b1c2d3e --extract out.jpg    Write the stored image to a file`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		manageImage(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.Flags().Bool("clear", false, "Remove the entry's image")
	imageCmd.Flags().String("extract", "", "Write the entry's image to this file")
}

// manageImage handles the image command logic
func manageImage(cmd *cobra.Command, args []string) {
	clearImage, _ := cmd.Flags().GetBool("clear")
	extractPath, _ := cmd.Flags().GetString("extract")

	modes := 0
	if clearImage {
		modes++
	}
	if extractPath != "" {
		modes++
	}
	if len(args) == 2 {
		modes++
	}
	if modes != 1 {
		fail("Specify exactly one of: an image file, --clear or --extract", nil, "See 'lookback image --help'")
		return
	}

	var image []byte
	if len(args) == 2 {
		var err error
		image, err = readImageFile(args[1])
		if err != nil {
			fail("Failed to read image", err, "Images must be JPEG, PNG, GIF, WebP or HEIC files")
			return
		}
	}

	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()

	e, owner, err := resolveEntry(a.Store.Actions(), args[0])
	if err != nil {
		fail("Entry not found", err, "Show entry ids with 'lookback show <action>'")
		return
	}

	if extractPath != "" {
		if !e.HasImage() {
			fail("Entry has no image", nil, "")
			return
		}
		if err := os.WriteFile(extractPath, e.ImageData, 0o644); err != nil {
			fail("Failed to write image", err, "")
			return
		}
		_, _ = fmt.Fprintf(deps.Stdout, "Wrote %d bytes to %s\n", len(e.ImageData), extractPath)
		return
	}

	if !a.Store.UpdateEntryImage(e.ID, image) {
		fail("Entry not found", fmt.Errorf("no entry matches %q", e.ID), "")
		return
	}
	if warnIfUnsaved(a) {
		return
	}

	if image == nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Cleared image of entry %s (%s)\n", shortID(e.ID), displayTitle(owner.Title))
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Attached image to entry %s (%s, %d bytes)\n", shortID(e.ID), displayTitle(owner.Title), len(image))
}

// readImageFile reads path and checks that it holds an image of an
// acceptable size.
func readImageFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxImageBytes {
		return nil, fmt.Errorf("%s is %d bytes, the limit is %d", path, info.Size(), maxImageBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("image file is empty")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%s looks like %s, not an image", path, mtype.String())
	}
	return data, nil
}
