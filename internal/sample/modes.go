package sample

import "github.com/xoChrisCo/video-toolbox/internal/config"

// encoderArgs returns the fixed flag bundle for a hardware path, split into
// input-side flags (hwaccel upload) and output-side flags (codec, preset).
// The bundles are frozen on purpose: speed figures are only comparable
// across a library when every file goes through identical encoder settings.
//
// plex-transcoder runs Plex's bundled ffmpeg fork, which accepts the stock
// x264 arguments, so it shares the software bundle and differs only in
// which binary is launched.
func encoderArgs(mode config.HwAccel) (input, output []string) {
	switch mode {
	case config.HwQSV:
		return []string{"-hwaccel", "qsv"},
			[]string{"-c:v", "h264_qsv", "-preset", "veryfast"}
	case config.HwVideoToolbox:
		return nil,
			[]string{"-c:v", "h264_videotoolbox", "-realtime", "true"}
	default:
		return nil,
			[]string{"-c:v", "libx264", "-preset", "ultrafast"}
	}
}
