package config

// Defaults returns the documented default configuration. Every option in
// Config has a default here so a missing or invalid config file never leaves
// a field in an undefined state.
func Defaults() *Config {
	return &Config{
		DialTimeoutSecs:    45,
		BetweenDialSecs:    10,
		ExitOnDisconnect:   false,
		IdleTimeoutSecs:    0,
		ScrollbackMaxLines: 20000,
		KeepaliveTimeout:   0,
		KeepaliveBytesRaw:  `\x00`,

		Assume80Columns: true,
		EnqAnswerback:   false,
		AnsiMusic:       false,
		AnsiAnimate:     true,

		AvatarAnsiColor:  true,
		Vt52AnsiColor:    false,
		Vt100AnsiColor:   false,
		XtermDoubleWidth: false,

		UseExternalSSH:    false,
		UseExternalRlogin: false,
		UseExternalTelnet: false,

		ZmodemAutostart:  true,
		ZmodemZchallenge: false,
		ZmodemEscapeCtrl: false,

		KermitAutostart:          true,
		KermitRobustFilename:     true,
		KermitStreaming:          true,
		KermitLongPackets:        true,
		KermitUploadsForceBinary: false,
		KermitDownloadsConvert:   true,
		KermitResend:             true,

		ISO8859Lang: "en",
		UTF8Lang:    "en_US.UTF-8",

		AsciiUploadCR:      PolicyNone,
		AsciiUploadLF:      PolicyNone,
		AsciiDownloadCR:    PolicyNone,
		AsciiDownloadLF:    PolicyNone,

		CaptureType:        CaptureNormal,
		ScreenDumpType:     CaptureNormal,
		ScrollbackSaveType: CaptureNormal,

		DownloadDir: ".",
	}
}
