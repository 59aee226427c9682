package pot

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "A simple manager for your precious dotfiles"
	MsgRootLong = `pot tracks your configuration files in a managed store and applies
them to your home directory as symlinks, copies, or shell inclusions.
The filesystem is the only source of truth: pot keeps no database and
derives the current state by inspecting your home directory on each run.`

	MsgInitShort = "Create a pot store and populate its default manifest"
	MsgInitLong = `Init creates the managed store (default: ~/.pot, see POT_HOME), its
dotfiles directory, and a config.yaml manifest seeded from any dotted
files already present. With --git the dotfiles directory is cloned from
the given repository first.`

	MsgInstallShort = "Install dotfiles in the system"
	MsgInstallLong = `Install applies every manifest entry: symlinking, copying, or including
each stored file at its target location. Targets already in the desired
state are left alone; occupied targets are reported as conflicts unless
--force is given.`

	MsgGrubShort = "Move a dotfile into the store and symlink it back"
	MsgGrubLong = `Grub captures a live configuration file: the file is moved into the
store's dotfiles directory, a symlink is left at its original location,
and a manifest entry is recorded for it.`

	// Status messages
	MsgInitialized    = "Initialized pot store at %s\n"
	MsgSeededItem     = "  tracking %s\n"
	MsgEntryLinked    = "Symlinked %s -> %s\n"
	MsgEntryCopied    = "Copied %s -> %s\n"
	MsgEntryIncluded  = "Included %s in %s\n"
	MsgEntryUnchanged = "%s is already in place\n"
	MsgAborted        = "Stopped at the first error (--fail-fast)"
	MsgGrabbed        = "Grabbed %s into %s\n"

	// Error messages
	MsgErrInit    = "failed to initialize store: %w"
	MsgErrInstall = "failed to install dotfiles: %w"
	MsgErrGrub    = "failed to grab dotfile: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (--verbose INFO, --verbose --verbose DEBUG)"
	MsgFlagForce    = "Overwrite existing files"
	MsgFlagFailFast = "Stop on first error"
	MsgFlagVersion  = "Print version information"
	MsgFlagGit      = "Git repository URL to clone the dotfiles from"

	MsgVersionTemplate = "pot version {{.Version}}\n"
)
