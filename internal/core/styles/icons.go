package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconStar    = "" // nf-fa-star
	IconCheck   = "" // nf-fa-check
	IconCross   = "" // nf-fa-xmark
	IconComment = "" // nf-fa-comment
	IconPackage = "" // nf-oct-package
)
