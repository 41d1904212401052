package utils

const DefaultBufferSize = 1024 * 1024 // 1MB read buffer
const LogFile = ".vigilfetch.log"
const ToolUserAgent = "vigilfetch/1.0"

// RecordingIDSeparator joins a camera folder and a clip filename into the
// recording id the Vigila API uses, e.g. "camera_1::recording_120000.mp4".
const RecordingIDSeparator = "::"
