// Package devices opens a project on an Android device or emulator (adb) or
// in a booted iOS simulator (xcrun simctl).
//
// Launches never return a Go error. The outcome is a Result whose Err
// explains an unsuccessful launch in terms the user can act on.
package devices
