package version

const APP_VERSION = "0.3.0"
