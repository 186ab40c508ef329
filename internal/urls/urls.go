package urls

// Documentation URLs shown in the console banners.
// All URLs point to the documentation site at https://muurk.github.io/devterm/

// ConnectingDevices explains the ways a phone or simulator can load the project.
const ConnectingDevices = "https://muurk.github.io/devterm/guides/connecting-devices/"

// Troubleshooting provides solutions to common connection and bundler issues.
const Troubleshooting = "https://muurk.github.io/devterm/guides/troubleshooting/"
