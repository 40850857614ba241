package export

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/notamd/nota/pkg/htmltree"
)

var regexDataURI = regexp.MustCompile(`^data:([a-zA-Z0-9.+/-]+);base64,(.*)$`)

// extractAssets decodes embedded data: URIs into binary files under the
// assets folder and rewrites the image sources to relative paths. The
// counter is shared across the whole run so names never collide between
// pages. Undecodable payloads keep their data: URI.
func (e *Exporter) extractAssets(run *exportContext, tree *htmltree.Node, isRoot bool) {
	for _, img := range tree.FindTag("img") {
		m := regexDataURI.FindStringSubmatch(img.Attr("src"))
		if m == nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(m[2])
		if err != nil {
			e.logger.Warnf("Unable to decode embedded image: %v", err)
			continue
		}

		run.imageCounter++
		name := fmt.Sprintf("image-%d%s", run.imageCounter, extensionForMediaType(m[1]))
		run.assets.AddBinary(name, data)

		prefix := e.options.AssetsDir + "/"
		if !isRoot {
			// Pages live one level below the archive root
			prefix = "../" + prefix
		}
		img.SetAttr("src", prefix+name)
	}
}

func extensionForMediaType(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
